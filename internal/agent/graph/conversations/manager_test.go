package conversations

import (
	"testing"

	"github.com/cloudwego/eino/schema"
)

func toolCall(id, name string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{{ID: id, Function: schema.FunctionCall{Name: name, Arguments: "{}"}}})
}

func TestTrailingToolResult(t *testing.T) {
	result := schema.ToolMessage("7", "call_1")
	tests := []struct {
		name    string
		history []*schema.Message
		want    *schema.Message
	}{
		{"directly after tool", []*schema.Message{schema.UserMessage("q"), toolCall("call_1", "add"), result}, result},
		{"after final answer", []*schema.Message{schema.UserMessage("Add 3 and 4"), toolCall("call_1", "add"), result, schema.AssistantMessage("7", nil)}, nil},
		{"no tools", []*schema.Message{schema.UserMessage("hi"), schema.AssistantMessage("hello", nil)}, nil},
		{"nil tail", []*schema.Message{result, nil}, nil},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TrailingToolResult(tt.history)
			if got != tt.want || ok != (tt.want != nil) {
				t.Fatalf("TrailingToolResult = %v, %v", got, ok)
			}
		})
	}
}

func TestBuildDecisionContext(t *testing.T) {
	history := []*schema.Message{schema.UserMessage("a"), nil, schema.AssistantMessage("b", nil)}
	got := BuildDecisionContext(schema.SystemMessage("sys"), history)
	if len(got) != 3 || got[0].Role != schema.System || got[2].Content != "b" {
		t.Fatalf("context = %v", got)
	}
	if len(history) != 3 {
		t.Fatalf("history mutated")
	}
}

func TestSnapshotAndTrim(t *testing.T) {
	history := []*schema.Message{schema.UserMessage("1"), schema.UserMessage("2"), schema.UserMessage("3")}
	snap := Snapshot(history)
	snap[0] = nil
	if history[0] == nil {
		t.Fatalf("snapshot aliases history")
	}
	if got := trimTail(history, 2); len(got) != 2 || got[0].Content != "2" {
		t.Fatalf("trimTail = %v", got)
	}
	if LatestUserContent(history) != "3" {
		t.Fatalf("LatestUserContent wrong")
	}
}
