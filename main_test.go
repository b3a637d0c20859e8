package main

import (
	"context"
	"testing"

	"github.com/autodriver-poc/server/internal/agent/ros2"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TOPIC_CACHE_BACKEND", "")
	t.Setenv("CONVERSATION_TOOL_MAX_ROUNDS", "4")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ROS2.TopicCommand != "ros2 topic list" {
		t.Errorf("TopicCommand = %q", cfg.ROS2.TopicCommand)
	}
	if cfg.ROS2.TemplatePath != ros2.DefaultTemplatePath {
		t.Errorf("TemplatePath = %q", cfg.ROS2.TemplatePath)
	}
	if cfg.Conversation.Tools.MaxRounds != 4 {
		t.Errorf("MaxRounds = %d, want 4", cfg.Conversation.Tools.MaxRounds)
	}
	if cfg.Knowledge.TopK != 2 || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v %+v", cfg.Knowledge, cfg.Server)
	}
}

func TestNewAppTopicCacheBackend(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	cfg.ROS2.CacheBackend = "memory"
	a, err := newApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newApp(memory): %v", err)
	}
	defer a.Close()
	if a.pipeline == nil || a.pipeline.Renderer == nil {
		t.Fatal("pipeline not wired")
	}

	cfg.ROS2.CacheBackend = "memcached"
	if _, err := newApp(context.Background(), cfg); err == nil {
		t.Fatal("unknown backend should fail")
	}

	cfg.ROS2.CacheBackend = "redis"
	cfg.Redis.URL = ""
	if _, err := newApp(context.Background(), cfg); err == nil {
		t.Fatal("redis backend without URL should fail")
	}
}

func TestRunnerRequiresAPIKey(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.APIKey = ""
	a, err := newApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()
	if _, err := a.runner(context.Background()); err == nil {
		t.Fatal("runner without api key should fail")
	}
}
