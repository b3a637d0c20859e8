package tools

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/autodriver-poc/server/internal/agent/model"
	errx "github.com/autodriver-poc/server/internal/core/error"
)

// ErrDivisionByZero is returned by the divide tool; it aborts the run.
var ErrDivisionByZero = errors.New("division by zero")

func operandParams(verb string) *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"a": {Type: schema.Integer, Desc: "First integer to " + verb, Required: true},
		"b": {Type: schema.Integer, Desc: "Second integer to " + verb, Required: true},
	})
}

func createAddTool() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name:        AddToolName,
			Desc:        "Add two integers. Returns the sum of a and b.",
			ParamsOneOf: operandParams("add"),
		},
		func(ctx context.Context, in *model.OperandsInput) (int, error) {
			return in.A + in.B, nil
		},
		utils.WithMarshalOutput(marshalPlain),
	)
}

func createMultiplyTool() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name:        MultiplyToolName,
			Desc:        "Multiply two integers. Returns the product of a and b.",
			ParamsOneOf: operandParams("multiply"),
		},
		func(ctx context.Context, in *model.OperandsInput) (int, error) {
			return in.A * in.B, nil
		},
		utils.WithMarshalOutput(marshalPlain),
	)
}

func createDivideTool() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: DivideToolName,
			Desc: "Divide two numbers. Returns the quotient of a divided by b as a float.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"a": {Type: schema.Integer, Desc: "Dividend (number to be divided)", Required: true},
				"b": {Type: schema.Integer, Desc: "Divisor (number to divide by)", Required: true},
			}),
		},
		func(ctx context.Context, in *model.OperandsInput) (float64, error) {
			if in.B == 0 {
				return 0, errx.WrapTool(ErrDivisionByZero)
			}
			return float64(in.A) / float64(in.B), nil
		},
		utils.WithMarshalOutput(marshalPlain),
	)
}
