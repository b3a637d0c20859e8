package model

import "github.com/cloudwego/eino/schema"

// Role tags accepted on loosely-typed inbound records.
const (
	RoleTagHuman = "human"
	RoleTagAI    = "ai"
)

// Inbound is one caller-supplied message. It is a closed union:
// TypedMessage and RawRecord are the only implementations.
type Inbound interface {
	inbound()
}

// TypedMessage wraps a message that already has the canonical Eino type.
type TypedMessage struct {
	Message *schema.Message
}

func (TypedMessage) inbound() {}

// RawRecord is a loosely-typed {type, content} record, e.g. decoded from JSON.
type RawRecord struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (RawRecord) inbound() {}

// Typed wraps Eino messages as inbound values.
func Typed(msgs ...*schema.Message) []Inbound {
	out := make([]Inbound, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, TypedMessage{Message: m})
	}
	return out
}

// Records wraps raw records as inbound values.
func Records(recs ...RawRecord) []Inbound {
	out := make([]Inbound, 0, len(recs))
	for _, r := range recs {
		out = append(out, r)
	}
	return out
}

// UserQuery is a convenience for the common single-utterance run.
func UserQuery(text string) RunInput {
	return RunInput{Messages: Typed(schema.UserMessage(text))}
}
