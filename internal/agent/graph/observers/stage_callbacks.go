package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/schema"

	"github.com/autodriver-poc/server/internal/agent/model"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// StageSink receives one delta per completed graph node, in completion order.
type StageSink func(model.StageDelta)

// NewStageCallbacks reports the output of the named graph nodes to sink.
// Component callbacks (models, tools, prompts) are ignored.
func NewStageCallbacks(runID string, nodes []string, sink StageSink) einocb.Handler {
	watched := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		watched[n] = struct{}{}
	}
	return einocb.NewHandlerBuilder().
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, output einocb.CallbackOutput) context.Context {
			if info == nil {
				return ctx
			}
			if _, ok := watched[info.Name]; !ok {
				return ctx
			}
			delta, ok := toDelta(info.Name, output)
			if !ok {
				logx.Debug().Str("node", info.Name).Msgf("Skipping nested callback output %T", output)
				return ctx
			}
			delta.RunID = runID
			sink(delta)
			return ctx
		}).
		Build()
}

func toDelta(node string, output einocb.CallbackOutput) (model.StageDelta, bool) {
	switch out := output.(type) {
	case []*schema.Message:
		return model.StageDelta{Node: node, Messages: out}, true
	case model.Outcome:
		d := model.StageDelta{Node: node, Terminal: out.IsTerminal()}
		if out.Message != nil {
			d.Messages = []*schema.Message{out.Message}
		}
		return d, true
	case *model.RunResult:
		return model.StageDelta{Node: node, Terminal: true}, true
	default:
		return model.StageDelta{}, false
	}
}
