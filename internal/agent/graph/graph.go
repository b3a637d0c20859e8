package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	"github.com/autodriver-poc/server/internal/agent/graph/nodes"
	"github.com/autodriver-poc/server/internal/agent/graph/observers"
	"github.com/autodriver-poc/server/internal/agent/graph/parsers"
	"github.com/autodriver-poc/server/internal/agent/graph/tools"
	"github.com/autodriver-poc/server/internal/agent/model"
	"github.com/autodriver-poc/server/internal/agent/ros2"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// Runner executes the compiled agent graph.
type Runner interface {
	Invoke(ctx context.Context, in model.RunInput) (*model.RunResult, error)
	// Stream behaves like Invoke and also reports each completed stage to sink.
	Stream(ctx context.Context, in model.RunInput, sink observers.StageSink) (*model.RunResult, error)
}

// Config holds everything needed to compose the full agent graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs ChatModels and tools.
type Config struct {
	APIKey       string
	BaseURL      string
	DecideModel  model.DecideModelConfig
	SummaryModel model.SummaryModelConfig
	Retry        model.RetryConfig
	Conversation model.ConversationConfig
	Pipeline     *ros2.Pipeline
	Knowledge    tools.ContextRetriever
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels    *nodes.ChatModels
	Registry      *tools.Registry
	Pipeline      nodes.PipelineRunner
	ToolMaxRounds int
}

// GraphBuilder handles the construction of the agent graph
type GraphBuilder struct {
	config    *GraphConfig
	graph     *compose.Graph[model.RunInput, *model.RunResult]
	toolsNode *compose.ToolsNode
}

type graphRunner struct {
	runnable compose.Runnable[model.RunInput, *model.RunResult]
}

// NewRunner wraps a compiled graph.
func NewRunner(runnable compose.Runnable[model.RunInput, *model.RunResult]) Runner {
	return &graphRunner{runnable: runnable}
}

func (r *graphRunner) Invoke(ctx context.Context, in model.RunInput) (*model.RunResult, error) {
	return r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
}

func (r *graphRunner) Stream(ctx context.Context, in model.RunInput, sink observers.StageSink) (*model.RunResult, error) {
	if in.RunID == "" {
		in.RunID = uuid.NewString()
	}
	return r.runnable.Invoke(ctx, in, compose.WithCallbacks(
		observers.NewAllCallbacks(),
		observers.NewStageCallbacks(in.RunID, nodes.StageNodes, sink),
	))
}

// BuildAgentGraph composes ChatModels and the tool registry, builds the graph, and returns a Runner.
func BuildAgentGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("ros2 pipeline is nil")
	}
	if cfg.Knowledge == nil {
		return nil, fmt.Errorf("knowledge retriever is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		DecideConfig:  &cfg.DecideModel,
		SummaryConfig: &cfg.SummaryModel,
		Retry:         cfg.Retry,
	})
	if err != nil {
		return nil, err
	}

	registry, err := tools.NewDefaultRegistry(ctx, cfg.Knowledge, tools.FromPipeline(cfg.Pipeline))
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:    cms,
		Registry:      registry,
		Pipeline:      cfg.Pipeline,
		ToolMaxRounds: cfg.Conversation.Tools.MaxRounds,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Strs("tools", registry.Names()).Msg("Agent graph built successfully")
	return NewRunner(runnable), nil
}

// BuildGraph constructs and returns the compiled agent graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.RunInput, *model.RunResult], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Decide == nil || config.ChatModels.Summary == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.Registry == nil {
		return nil, fmt.Errorf("tool registry is nil")
	}
	if config.Pipeline == nil {
		return nil, fmt.Errorf("ros2 pipeline is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.RunInput, *model.RunResult](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}
	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools binds the registry to the decide model and builds the tools node.
// No unknown-tools handler is installed: a hallucinated tool name fails the run.
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	if err := b.config.ChatModels.BindTools(ctx, b.config.Registry.ToolInfos()); err != nil {
		return fmt.Errorf("failed to bind tools to decide model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:                b.config.Registry.BaseTools(),
		ExecuteSequentially:  true,
		ToolArgumentsHandler: parsers.SanitizeToolArguments,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}
	b.toolsNode = toolsNode
	return nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	cms := b.config.ChatModels
	decider := &nodes.Decider{Model: cms.Decide, Pipeline: b.config.Pipeline}
	summarizer := &nodes.Summarizer{Model: cms.Summary}

	adds := []struct {
		key string
		err error
	}{
		{nodes.NodeParseInput, b.graph.AddLambdaNode(nodes.NodeParseInput,
			nodes.NewParseInputNode(),
			compose.WithNodeName(nodes.NodeParseInput),
			compose.WithStatePreHandler(nodes.NewParseInputPreHandler()),
			compose.WithStatePostHandler(nodes.NewParseInputPostHandler()),
		)},
		{nodes.NodeLLMDecide, b.graph.AddLambdaNode(nodes.NodeLLMDecide,
			nodes.NewDecideNode(decider),
			compose.WithNodeName(nodes.NodeLLMDecide),
			compose.WithStatePreHandler(nodes.NewDecidePreHandler()),
			compose.WithStatePostHandler(nodes.NewDecidePostHandler(cms.DecideModelName)),
		)},
		{nodes.NodeExecuteTool, b.graph.AddLambdaNode(nodes.NodeExecuteTool,
			nodes.NewExecuteToolNode(b.toolsNode),
			compose.WithNodeName(nodes.NodeExecuteTool),
			compose.WithStatePostHandler(nodes.NewExecuteToolPostHandler()),
		)},
		{nodes.NodeLLMSummarize, b.graph.AddLambdaNode(nodes.NodeLLMSummarize,
			nodes.NewSummarizeNode(summarizer),
			compose.WithNodeName(nodes.NodeLLMSummarize),
			compose.WithStatePostHandler(nodes.NewSummarizePostHandler(cms.SummaryModelName)),
		)},
		{nodes.NodeFinalize, b.graph.AddLambdaNode(nodes.NodeFinalize,
			nodes.NewFinalizeNode(),
			compose.WithNodeName(nodes.NodeFinalize),
		)},
	}
	for _, a := range adds {
		if a.err != nil {
			logx.Error().Err(a.err).Str("node", a.key).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", a.key, a.err)
		}
	}
	return nil
}

// addEdges creates the fixed flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeParseInput},
		{nodes.NodeParseInput, nodes.NodeLLMDecide},
		{nodes.NodeExecuteTool, nodes.NodeLLMDecide},
		{nodes.NodeLLMSummarize, nodes.NodeFinalize},
		{nodes.NodeFinalize, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates the routing branch after the decision stage
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewDecisionCondition(),
		map[string]bool{
			nodes.NodeFinalize:     true,
			nodes.NodeExecuteTool:  true,
			nodes.NodeLLMSummarize: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeLLMDecide, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.RunInput, *model.RunResult], error) {
	// Limit total run steps to avoid infinite decide <-> execute_tool loops
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(nodes.MaxRunSteps(b.config.ToolMaxRounds)))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
