package nodes

import (
	"github.com/cloudwego/eino/schema"

	"github.com/autodriver-poc/server/internal/agent/model"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// NormalizeMessages converts every inbound value to an Eino message, preserving
// order and length. Raw records tagged "human" become user messages, "ai"
// becomes assistant, and any other tag falls back to user with a warning.
func NormalizeMessages(in []model.Inbound) []*schema.Message {
	out := make([]*schema.Message, 0, len(in))
	for i, item := range in {
		switch v := item.(type) {
		case model.TypedMessage:
			msg := v.Message
			if msg == nil {
				logx.Warn().Int("index", i).Msg("Nil typed message; using empty user message")
				msg = schema.UserMessage("")
			}
			out = append(out, msg)
		case model.RawRecord:
			out = append(out, recordToMessage(i, v))
		case nil:
			logx.Warn().Int("index", i).Msg("Nil inbound message; using empty user message")
			out = append(out, schema.UserMessage(""))
		}
	}
	return out
}

func recordToMessage(i int, r model.RawRecord) *schema.Message {
	switch r.Type {
	case model.RoleTagHuman:
		return schema.UserMessage(r.Content)
	case model.RoleTagAI:
		return schema.AssistantMessage(r.Content, nil)
	default:
		logx.Warn().Int("index", i).Str("type", r.Type).Msg("Unknown role tag; treating record as user input")
		return schema.UserMessage(r.Content)
	}
}

// ParseInput derives the parsed-input record from normalized messages.
// An empty sequence yields an invalid, empty record.
func ParseInput(msgs []*schema.Message) model.ParsedInput {
	if len(msgs) == 0 {
		return model.ParsedInput{}
	}
	return model.ParsedInput{Text: msgs[len(msgs)-1].Content, Valid: true}
}
