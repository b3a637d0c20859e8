package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/autodriver-poc/server/internal/agent/model"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey        string
	BaseURL       string
	DecideConfig  *model.DecideModelConfig
	SummaryConfig *model.SummaryModelConfig
	Retry         model.RetryConfig
}

// ChatModels holds the decision and summarization chat models.
// Decide is tool-bound once BindTools has been called; Summary never carries tools.
type ChatModels struct {
	Decide           einomodel.ToolCallingChatModel
	Summary          einomodel.ToolCallingChatModel
	DecideModelName  string
	SummaryModelName string
}

// NewChatModels creates both Gemini chat models with the given configuration,
// each wrapped with retry on transient failures.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.DecideConfig == nil || config.SummaryConfig == nil {
		return nil, fmt.Errorf("model config is nil")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	decide, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.DecideConfig.Model,
		Temperature: &config.DecideConfig.Temperature,
		MaxTokens:   &config.DecideConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating decide model")
		return nil, fmt.Errorf("error creating decide model: %w", err)
	}

	summary, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.SummaryConfig.Model,
		Temperature: &config.SummaryConfig.Temperature,
		MaxTokens:   &config.SummaryConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating summary model")
		return nil, fmt.Errorf("error creating summary model: %w", err)
	}

	return &ChatModels{
		Decide:           WithRetry(decide, config.Retry),
		Summary:          WithRetry(summary, config.Retry),
		DecideModelName:  config.DecideConfig.Model,
		SummaryModelName: config.SummaryConfig.Model,
	}, nil
}

// BindTools binds tools to the decide model.
func (cm *ChatModels) BindTools(ctx context.Context, tools []*schema.ToolInfo) error {
	bound, err := cm.Decide.WithTools(tools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}
	cm.Decide = bound

	logx.Debug().Int("tool_count", len(tools)).Msg("Successfully bound tools to decide model")
	return nil
}
