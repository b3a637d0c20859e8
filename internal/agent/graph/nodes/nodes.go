package nodes

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/autodriver-poc/server/internal/agent/graph/conversations"
	"github.com/autodriver-poc/server/internal/agent/graph/prompts"
	"github.com/autodriver-poc/server/internal/agent/model"
	"github.com/autodriver-poc/server/internal/agent/ros2"
	errx "github.com/autodriver-poc/server/internal/core/error"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// ErrMalformedResponse is returned when a model call yields no message.
var ErrMalformedResponse = errors.New("model returned no message")

// PipelineRunner runs the fixed discover -> derive -> render pipeline.
type PipelineRunner interface {
	Run(ctx context.Context) (*model.PipelineArtifacts, error)
}

// Decider implements the llm_decide stage.
type Decider struct {
	Model    einomodel.BaseChatModel
	Pipeline PipelineRunner
	// Trigger reports whether an utterance forces the fixed pipeline.
	Trigger func(utterance string) bool
}

// Decide short-circuits into the fixed pipeline when the utterance triggers it,
// otherwise asks the tool-bound model. Pipeline failures never surface as errors;
// they become a terminal answer. The returned artifacts are nil on the model path.
func (d *Decider) Decide(ctx context.Context, utterance string, history []*schema.Message) (model.Outcome, *model.PipelineArtifacts, error) {
	trigger := d.Trigger
	if trigger == nil {
		trigger = ros2.Triggered
	}
	if trigger(utterance) {
		logx.Info().Str("utterance", utterance).Msg("Fixed ROS2 pipeline triggered")
		art, err := d.Pipeline.Run(ctx)
		if art == nil {
			art = &model.PipelineArtifacts{}
		}
		if err != nil {
			logx.Error().Err(err).Msg("ROS2 pipeline failed")
			art.Err = err.Error()
			return model.Terminal(schema.AssistantMessage(ros2.FailureMessage(err), nil)), art, nil
		}
		logx.Info().Int("length", len(art.NodePy)).Msg("ROS2 node generated")
		return model.Terminal(schema.AssistantMessage(art.NodePy, nil)), art, nil
	}

	system, err := prompts.RenderDecideSystem(ctx)
	if err != nil {
		return model.Outcome{}, nil, err
	}
	resp, err := generate(ctx, d.Model, conversations.BuildDecisionContext(system, history),
		einomodel.WithToolChoice(schema.ToolChoiceAllowed))
	if err != nil {
		return model.Outcome{}, nil, err
	}
	return model.Continue(resp), nil, nil
}

// Summarizer implements the llm_summarize stage.
type Summarizer struct {
	Model einomodel.BaseChatModel
}

// Summarize passes terminal outcomes through untouched. Otherwise, when the
// last history message is a tool result, it asks the plain model for a concise
// answer from that result and the utterance; failing that it continues from the
// full history.
func (s *Summarizer) Summarize(ctx context.Context, in model.Outcome, utterance string, history []*schema.Message) (model.Outcome, error) {
	if in.IsTerminal() {
		return in, nil
	}

	var msgs []*schema.Message
	if result, ok := conversations.TrailingToolResult(history); ok {
		rag, err := prompts.RenderSummarize(ctx, result.Content, utterance)
		if err != nil {
			return model.Outcome{}, err
		}
		msgs = []*schema.Message{rag}
	} else {
		msgs = conversations.Snapshot(history)
	}

	resp, err := generate(ctx, s.Model, msgs)
	if err != nil {
		return model.Outcome{}, err
	}
	return model.Terminal(resp), nil
}

func generate(ctx context.Context, cm einomodel.BaseChatModel, msgs []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if cm == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	resp, err := cm.Generate(ctx, msgs, opts...)
	if err != nil {
		return nil, errx.WrapLLM(err)
	}
	if resp == nil {
		return nil, errx.New(ErrMalformedResponse, http.StatusBadGateway, errx.LLMErrorMessage)
	}
	if resp.Role == "" {
		resp.Role = schema.Assistant
	}
	return resp, nil
}

// NewParseInputPreHandler seeds the run state from the caller's input.
func NewParseInputPreHandler() func(context.Context, model.RunInput, *model.AppState) (model.RunInput, error) {
	return func(ctx context.Context, in model.RunInput, s *model.AppState) (model.RunInput, error) {
		s.RunID = in.RunID
		if s.RunID == "" {
			s.RunID = uuid.NewString()
		}
		s.LLMCalls = in.LLMCalls
		s.ToolCallIDSeq = 0
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewParseInputNode normalizes inbound messages.
func NewParseInputNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.RunInput) ([]*schema.Message, error) {
		return NormalizeMessages(in.Messages), nil
	})
}

// NewParseInputPostHandler records the normalized history and parsed utterance.
func NewParseInputPostHandler() func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, out []*schema.Message, s *model.AppState) ([]*schema.Message, error) {
		s.Append(out...)
		parsed := ParseInput(out)
		s.ParsedInput = &parsed
		logx.Debug().
			Str("run_id", s.RunID).
			Str("user_query", parsed.Text).
			Bool("valid", parsed.Valid).
			Int("messages", len(out)).
			Msg("Input parsed")
		return out, nil
	}
}

// NewDecidePreHandler replaces the node input (the previous stage's delta) with
// a snapshot of the full history.
func NewDecidePreHandler() func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, _ []*schema.Message, s *model.AppState) ([]*schema.Message, error) {
		return conversations.Snapshot(s.Messages), nil
	}
}

// NewDecideNode runs the Decider and records pipeline artifacts in state.
func NewDecideNode(d *Decider) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, history []*schema.Message) (model.Outcome, error) {
		var utterance string
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			utterance = s.Utterance()
			return nil
		}); err != nil {
			return model.Outcome{}, fmt.Errorf("failed to access state: %w", err)
		}

		out, art, err := d.Decide(ctx, utterance, history)
		if err != nil {
			return model.Outcome{}, err
		}
		if art != nil {
			if err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
				if s.Pipeline == nil {
					s.Pipeline = art
				}
				return nil
			}); err != nil {
				return model.Outcome{}, fmt.Errorf("failed to access state: %w", err)
			}
		}
		return out, nil
	})
}

// NewDecidePostHandler counts the invocation, fills missing tool-call ids,
// accounts usage cost and appends the decision to history.
func NewDecidePostHandler(modelName string) func(context.Context, model.Outcome, *model.AppState) (model.Outcome, error) {
	return func(ctx context.Context, out model.Outcome, s *model.AppState) (model.Outcome, error) {
		if out.Message == nil {
			return out, errx.New(ErrMalformedResponse, http.StatusBadGateway, errx.LLMErrorMessage)
		}
		s.LLMCalls++
		ensureToolCallIDs(s, out.Message)
		recordUsage(s, NodeLLMDecide, modelName, out.Message)
		s.Append(out.Message)

		if n := len(out.Message.ToolCalls); n > 0 {
			logx.Debug().Str("run_id", s.RunID).Int("tool_count", n).Msg("Calling tools")
		} else {
			logx.Debug().Str("run_id", s.RunID).Str("outcome", out.Kind.String()).Msg("Decision ready")
		}
		return out, nil
	}
}

// NewDecisionCondition routes after llm_decide: terminal outcomes finish the
// run, tool requests go to execution, anything else is summarized.
func NewDecisionCondition() func(context.Context, model.Outcome) (string, error) {
	return func(ctx context.Context, in model.Outcome) (string, error) {
		switch {
		case in.IsTerminal():
			logx.Debug().Msg("Terminal outcome - routing to finalize")
			return NodeFinalize, nil
		case in.WantsTools():
			logx.Debug().Int("tool_count", len(in.Message.ToolCalls)).Msg("Routing to execute_tool")
			return NodeExecuteTool, nil
		default:
			logx.Debug().Msg("No tool calls - routing to summarize")
			return NodeLLMSummarize, nil
		}
	}
}

// NewExecuteToolNode runs every requested tool call in order. Unknown tools and
// tool errors abort the run.
func NewExecuteToolNode(tn *compose.ToolsNode) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Outcome) ([]*schema.Message, error) {
		if !in.WantsTools() {
			return nil, fmt.Errorf("execute_tool reached without tool calls")
		}
		results, err := tn.Invoke(ctx, in.Message)
		if err != nil {
			return nil, errx.WrapTool(err)
		}
		if len(results) != len(in.Message.ToolCalls) {
			return nil, errx.WrapTool(fmt.Errorf("got %d tool results for %d calls", len(results), len(in.Message.ToolCalls)))
		}
		return results, nil
	})
}

// NewExecuteToolPostHandler appends tool results to history.
func NewExecuteToolPostHandler() func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, out []*schema.Message, s *model.AppState) ([]*schema.Message, error) {
		s.Append(out...)
		logx.Debug().Str("run_id", s.RunID).Int("results", len(out)).Msg("Tool results appended")
		return out, nil
	}
}

// NewSummarizeNode runs the Summarizer over the current history.
func NewSummarizeNode(sm *Summarizer) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Outcome) (model.Outcome, error) {
		var (
			utterance string
			history   []*schema.Message
		)
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			utterance = s.Utterance()
			history = conversations.Snapshot(s.Messages)
			return nil
		}); err != nil {
			return model.Outcome{}, fmt.Errorf("failed to access state: %w", err)
		}
		return sm.Summarize(ctx, in, utterance, history)
	})
}

// NewSummarizePostHandler appends and counts a freshly generated answer. A
// passed-through message is already the last history entry and is left alone.
func NewSummarizePostHandler(modelName string) func(context.Context, model.Outcome, *model.AppState) (model.Outcome, error) {
	return func(ctx context.Context, out model.Outcome, s *model.AppState) (model.Outcome, error) {
		if out.Message == nil {
			return out, errx.New(ErrMalformedResponse, http.StatusBadGateway, errx.LLMErrorMessage)
		}
		if out.Message == s.Last() {
			return out, nil
		}
		s.LLMCalls++
		recordUsage(s, NodeLLMSummarize, modelName, out.Message)
		s.Append(out.Message)
		logx.Debug().Str("run_id", s.RunID).Msg("AI response ready")
		return out, nil
	}
}

// NewFinalizeNode snapshots the run state into the result.
func NewFinalizeNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Outcome) (*model.RunResult, error) {
		var res *model.RunResult
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			res = &model.RunResult{
				RunID:             s.RunID,
				Messages:          conversations.Snapshot(s.Messages),
				LLMCalls:          s.LLMCalls,
				ParsedInput:       s.ParsedInput,
				PipelineTriggered: s.Pipeline != nil,
				Pipeline:          s.Pipeline,
				TotalCostUSD:      s.TotalCostUSD,
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		logx.Info().
			Str("run_id", res.RunID).
			Int("llm_calls", res.LLMCalls).
			Bool("ros2_task_triggered", res.PipelineTriggered).
			Float64("total_cost_usd", res.TotalCostUSD).
			Msg("Run finished")
		return res, nil
	})
}
