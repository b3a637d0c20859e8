package ros2

import (
	"context"
	"fmt"
	"strings"

	"github.com/autodriver-poc/server/internal/agent/model"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// TriggerWords force the fixed pipeline when any of them is a substring of the
// user utterance. Matching is case-sensitive.
var TriggerWords = []string{"ROS2", "ros2", "node.py", "机器人", "生成驱动", "驱动代码", "生成node", "ROS2驱动", "机器人驱动"}

// Triggered reports whether utterance contains a trigger word.
func Triggered(utterance string) bool {
	for _, w := range TriggerWords {
		if strings.Contains(utterance, w) {
			return true
		}
	}
	return false
}

// FailureMessage is the answer given when a pipeline step returns an error.
func FailureMessage(err error) string {
	return fmt.Sprintf("ROS2工具执行失败，错误原因: %v", err)
}

// TopicSource lists robot topics.
type TopicSource interface {
	ListTopics(ctx context.Context) ([]string, error)
}

// Renderer turns a config into driver source text.
type Renderer interface {
	Render(cfg model.RobotConfig) string
}

// Pipeline runs discover -> derive -> render in that order.
type Pipeline struct {
	Topics   TopicSource
	Rules    []Rule
	Renderer Renderer
}

func NewPipeline(topics TopicSource, renderer Renderer) *Pipeline {
	return &Pipeline{Topics: topics, Rules: DefaultRules, Renderer: renderer}
}

// Run executes the three steps. The returned artifacts hold whatever was produced
// before a failing step; on success NodePy is the rendered text.
func (p *Pipeline) Run(ctx context.Context) (*model.PipelineArtifacts, error) {
	art := &model.PipelineArtifacts{}

	topics, err := p.Topics.ListTopics(ctx)
	if err != nil {
		return art, fmt.Errorf("list topics: %w", err)
	}
	art.Topics = topics
	logx.Debug().Int("topic_count", len(topics)).Msg("Fetched ROS2 topic list")

	cfg, err := DeriveConfig(topics, p.rules())
	if err != nil {
		return art, fmt.Errorf("derive config: %w", err)
	}
	art.Config = &cfg
	if missing := MissingSlots(cfg, p.rules()); len(missing) > 0 {
		logx.Warn().Strs("missing", missing).Msg("Robot config partially populated; rendering with empty topics")
	}

	art.NodePy = p.Renderer.Render(cfg)
	logx.Debug().Int("length", len(art.NodePy)).Msg("Rendered ROS2 node template")
	return art, nil
}

func (p *Pipeline) rules() []Rule {
	if p.Rules == nil {
		return DefaultRules
	}
	return p.Rules
}
