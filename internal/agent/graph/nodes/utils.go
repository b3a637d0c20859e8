package nodes

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/autodriver-poc/server/internal/agent/model"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// Graph node keys. They double as callback names for stage streaming.
const (
	NodeParseInput   = "parse_input"
	NodeLLMDecide    = "llm_decide"
	NodeExecuteTool  = "execute_tool"
	NodeLLMSummarize = "llm_summarize"
	NodeFinalize     = "finalize"
)

// StageNodes lists the node keys in their nominal execution order.
var StageNodes = []string{NodeParseInput, NodeLLMDecide, NodeExecuteTool, NodeLLMSummarize, NodeFinalize}

const DefaultMaxToolRounds = 10

// normalizeMaxToolRounds returns a sane default when the provided value is invalid.
func normalizeMaxToolRounds(n int) int {
	if n <= 0 {
		return DefaultMaxToolRounds
	}
	return n
}

// MaxRunSteps bounds a run: each tool round costs two steps (decide + execute).
func MaxRunSteps(maxToolRounds int) int {
	steps := 10 + normalizeMaxToolRounds(maxToolRounds)*2
	if steps < 20 {
		steps = 20
	}
	return steps
}

// ensureToolCallIDs fills missing tool-call ids; some providers omit them.
func ensureToolCallIDs(state *model.AppState, msg *schema.Message) {
	for i := range msg.ToolCalls {
		if strings.TrimSpace(msg.ToolCalls[i].ID) == "" {
			state.ToolCallIDSeq++
			msg.ToolCalls[i].ID = fmt.Sprintf("call_%d", state.ToolCallIDSeq)
		}
	}
}

// recordUsage adds the message's token cost to the run total and exposes it in Extra.
func recordUsage(state *model.AppState, node, modelName string, msg *schema.Message) {
	usage := model.UsageOf(msg)
	if usage == nil {
		return
	}
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
	if msg.Extra == nil {
		msg.Extra = map[string]any{}
	}
	msg.Extra["usage_cost"] = map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
		"input_cost":        inC,
		"output_cost":       outC,
		"total_cost":        totalC,
	}
	state.TotalCostUSD += totalC
	msg.Extra["usage_cost_total_usd"] = state.TotalCostUSD

	logx.Debug().
		Str("run_id", state.RunID).
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
