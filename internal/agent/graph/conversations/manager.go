package conversations

import (
	"github.com/cloudwego/eino/schema"
)

// BuildDecisionContext prepends the system instruction to the run history.
// The history slice is not modified.
func BuildDecisionContext(system *schema.Message, history []*schema.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+1)
	if system != nil {
		messages = append(messages, system)
	}
	for _, m := range history {
		if m != nil {
			messages = append(messages, m)
		}
	}
	return messages
}

// TrailingToolResult returns the last history message when it is a tool result.
func TrailingToolResult(history []*schema.Message) (*schema.Message, bool) {
	if len(history) == 0 {
		return nil, false
	}
	last := history[len(history)-1]
	if last == nil || last.Role != schema.Tool {
		return nil, false
	}
	return last, true
}

// LatestUserContent returns the content of the most recent user message.
func LatestUserContent(history []*schema.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if m := history[i]; m != nil && m.Role == schema.User {
			return m.Content
		}
	}
	return ""
}

// trimTail returns a copy of at most the last maxTurns messages.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}

// Snapshot copies history so later appends do not alias the caller's slice.
func Snapshot(history []*schema.Message) []*schema.Message {
	return trimTail(history, 0)
}
