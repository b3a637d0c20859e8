package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/autodriver-poc/server/internal/agent/graph"
	"github.com/autodriver-poc/server/internal/agent/knowledge"
	"github.com/autodriver-poc/server/internal/agent/model"
	"github.com/autodriver-poc/server/internal/agent/repo"
	"github.com/autodriver-poc/server/internal/agent/ros2"
	"github.com/autodriver-poc/server/internal/core"
	logx "github.com/autodriver-poc/server/pkg/logger"
	pkgredis "github.com/autodriver-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the agent,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Decide       model.DecideModelConfig
	Summary      model.SummaryModelConfig
	Retry        model.RetryConfig
	Conversation model.ConversationConfig
	ROS2         model.ROS2Config
	Knowledge    model.KnowledgeConfig
	Server       model.ServerConfig
}

const (
	cacheBackendMemory = "memory"
	cacheBackendRedis  = "redis"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "autodriver",
		Short:         "Tool-routing agent for calculation, robot knowledge and ROS2 driver generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAskCommand())
	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env when present, binds the environment and initializes logging.
func loadConfig() (*AppConfig, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %v\n", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel})
	return &cfg, nil
}

// app holds the long-lived collaborators shared by every run.
type app struct {
	cfg      *AppConfig
	pipeline *ros2.Pipeline
	closers  []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logx.Warn().Err(err).Msg("Failed to release resource")
		}
	}
}

func newApp(ctx context.Context, cfg *AppConfig) (*app, error) {
	a := &app{cfg: cfg}

	cache, err := a.topicCache(ctx)
	if err != nil {
		return nil, err
	}

	discovery := ros2.NewTopicDiscovery(ros2.NewShellCommand(cfg.ROS2.TopicCommand, cfg.ROS2.CommandTimeout), cache)
	a.pipeline = ros2.NewPipeline(discovery, ros2.NewTemplateRenderer(cfg.ROS2.TemplatePath))
	return a, nil
}

func (a *app) topicCache(ctx context.Context) (model.TopicCache, error) {
	switch a.cfg.ROS2.CacheBackend {
	case "", cacheBackendMemory:
		return ros2.NewMemoryTopicCache(), nil
	case cacheBackendRedis:
		rdb, err := a.cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		logx.Info().Str("key", a.cfg.ROS2.CacheKey).Msg("Using Redis topic cache")
		return repo.NewRedisTopicCache(rdb, a.cfg.ROS2.CacheKey), nil
	default:
		return nil, fmt.Errorf("unknown topic cache backend %q", a.cfg.ROS2.CacheBackend)
	}
}

// runner builds the LLM-backed agent graph.
func (a *app) runner(ctx context.Context) (graph.Runner, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	kb, err := knowledge.NewDefaultStore(ctx, a.cfg.Knowledge.CorpusPath, a.cfg.Knowledge.TopK, a.cfg.Knowledge.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to build knowledge store: %w", err)
	}

	return graph.BuildAgentGraph(ctx, graph.Config{
		APIKey:       a.cfg.APIKey,
		BaseURL:      a.cfg.BaseURL,
		DecideModel:  a.cfg.Decide,
		SummaryModel: a.cfg.Summary,
		Retry:        a.cfg.Retry,
		Conversation: a.cfg.Conversation,
		Pipeline:     a.pipeline,
		Knowledge:    kb,
	})
}

// setup loads config and builds the app; callers must Close it.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg)
}
