package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/autodriver-poc/server/internal/agent/model"
)

// ContextRetriever answers a question with reference text.
type ContextRetriever interface {
	Context(ctx context.Context, query string) (string, error)
}

func createKnowledgeQueryTool(kb ContextRetriever) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: KnowledgeQueryToolName,
			Desc: "必须调用此工具回答所有知识库相关问题，包括：机器人指令、机器人故障码、计算器支持的运算、机器人型号等。",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "用户的中文自然语言问题，比如：机器人前进指令是什么？计算器支持哪些运算？",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *model.KnowledgeQueryInput) (string, error) {
			q := strings.TrimSpace(in.Query)
			if q == "" {
				return "", fmt.Errorf("query is required")
			}
			return kb.Context(ctx, q)
		},
		utils.WithMarshalOutput(marshalPlain),
	)
}
