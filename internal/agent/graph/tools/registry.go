package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Registry holds the tools exposed to the model, keyed by unique name.
type Registry struct {
	tools  []tool.InvokableTool
	byName map[string]tool.InvokableTool
	infos  []*schema.ToolInfo
}

// NewRegistry indexes tools by name. A duplicate name is an error.
func NewRegistry(ctx context.Context, tools ...tool.InvokableTool) (*Registry, error) {
	r := &Registry{byName: make(map[string]tool.InvokableTool, len(tools))}
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		if _, dup := r.byName[info.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", info.Name)
		}
		r.byName[info.Name] = t
		r.tools = append(r.tools, t)
		r.infos = append(r.infos, info)
	}
	return r, nil
}

// NewDefaultRegistry builds the seven agent tools in their canonical order.
func NewDefaultRegistry(ctx context.Context, kb ContextRetriever, ros ROS2Components) (*Registry, error) {
	parse, err := createParseTopicsTool(ros)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", ParseTopicsToolName, err)
	}
	render, err := createRenderTemplateTool(ros)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", RenderTemplateToolName, err)
	}
	return NewRegistry(ctx,
		createAddTool(),
		createMultiplyTool(),
		createDivideTool(),
		createKnowledgeQueryTool(kb),
		createTopicListTool(ros),
		parse,
		render,
	)
}

// BaseTools returns the tools in registration order for a ToolsNode.
func (r *Registry) BaseTools() []tool.BaseTool {
	out := make([]tool.BaseTool, len(r.tools))
	for i, t := range r.tools {
		out[i] = t
	}
	return out
}

// ToolInfos returns the descriptors to bind on a chat model.
func (r *Registry) ToolInfos() []*schema.ToolInfo {
	return append([]*schema.ToolInfo(nil), r.infos...)
}

// Get selects a tool by name.
func (r *Registry) Get(name string) (tool.InvokableTool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names lists registered tool names in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.infos))
	for i, info := range r.infos {
		out[i] = info.Name
	}
	return out
}
