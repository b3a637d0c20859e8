package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	Tools struct {
		// MaxRounds bounds the decide <-> execute_tool loop of one run.
		MaxRounds int `envconfig:"CONVERSATION_TOOL_MAX_ROUNDS" default:"10"`
	}
}

type DecideModelConfig struct {
	Model       string  `envconfig:"DECIDE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"DECIDE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"DECIDE_TEMPERATURE" default:"0.0"`
}

type SummaryModelConfig struct {
	Model       string  `envconfig:"SUMMARY_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"SUMMARY_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"SUMMARY_TEMPERATURE" default:"0.0"`
}

type RetryConfig struct {
	MaxAttempts  int           `envconfig:"LLM_RETRY_MAX_ATTEMPTS" default:"3"`
	InitialDelay time.Duration `envconfig:"LLM_RETRY_INITIAL_DELAY" default:"200ms"`
	Multiplier   float64       `envconfig:"LLM_RETRY_MULTIPLIER" default:"2"`
}

type ROS2Config struct {
	TopicCommand   string        `envconfig:"ROS2_TOPIC_COMMAND" default:"ros2 topic list"`
	CommandTimeout time.Duration `envconfig:"ROS2_COMMAND_TIMEOUT" default:"8s"`
	TemplatePath   string        `envconfig:"ROS2_TEMPLATE_PATH" default:"data/ros2/template/galaxea/node_template.py"`
	CacheBackend   string        `envconfig:"TOPIC_CACHE_BACKEND" default:"memory"`
	CacheKey       string        `envconfig:"TOPIC_CACHE_KEY" default:"ros2:topic_list"`
}

type KnowledgeConfig struct {
	CorpusPath string `envconfig:"KNOWLEDGE_CORPUS_PATH"`
	TopK       int    `envconfig:"KNOWLEDGE_TOP_K" default:"2"`
	Dimensions int    `envconfig:"KNOWLEDGE_EMBEDDING_DIMS" default:"384"`
}

type ServerConfig struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}
