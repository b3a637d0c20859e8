package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/summarize_prompt.txt
var summarizePrompt string

// RenderSummarize builds the user message asking for a concise answer grounded
// on a tool result.
func RenderSummarize(ctx context.Context, reference, question string) (*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(summarizePrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Reference": reference,
		"Question":  question,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("summarize prompt render: empty result")
	}
	return msgs[0], nil
}
