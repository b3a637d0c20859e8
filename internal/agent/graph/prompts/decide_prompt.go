package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/autodriver-poc/server/internal/agent/graph/tools"
)

//go:embed template/decide_prompt.txt
var decideSystemPrompt string

// RenderDecideSystem renders the fixed tool-routing instruction via the Eino prompt component.
func RenderDecideSystem(ctx context.Context) (*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(decideSystemPrompt),
	)
	vars := map[string]any{
		"AddTool":         tools.AddToolName,
		"MultiplyTool":    tools.MultiplyToolName,
		"DivideTool":      tools.DivideToolName,
		"KnowledgeTool":   tools.KnowledgeQueryToolName,
		"TopicListTool":   tools.TopicListToolName,
		"ParseTopicsTool": tools.ParseTopicsToolName,
		"RenderTool":      tools.RenderTemplateToolName,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("decide prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("decide prompt render: empty result")
	}
	return msgs[0], nil
}
