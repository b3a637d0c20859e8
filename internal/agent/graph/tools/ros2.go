package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/autodriver-poc/server/internal/agent/model"
	"github.com/autodriver-poc/server/internal/agent/ros2"
)

// ROS2Components are the collaborators shared by the ROS2 tools and the fixed pipeline.
type ROS2Components struct {
	Topics   ros2.TopicSource
	Rules    []ros2.Rule
	Renderer ros2.Renderer
}

// FromPipeline exposes the pipeline's collaborators to the tools.
func FromPipeline(p *ros2.Pipeline) ROS2Components {
	return ROS2Components{Topics: p.Topics, Rules: p.Rules, Renderer: p.Renderer}
}

func createTopicListTool(c ROS2Components) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: TopicListToolName,
			Desc: "【ROS2专属】获取当前机器人所有ROS2话题列表，执行命令: ros2 topic list",
		},
		func(ctx context.Context, _ *struct{}) ([]string, error) {
			return c.Topics.ListTopics(ctx)
		},
		utils.WithMarshalOutput(marshalPlain),
	)
}

func createParseTopicsTool(c ROS2Components) (tool.InvokableTool, error) {
	return utils.InferTool(
		ParseTopicsToolName,
		"【ROS2专属核心】根据ROS2话题列表自动分类解析，生成适配GALAXEALITE模板的配置字典",
		func(ctx context.Context, in *model.ParseTopicsInput) (model.RobotConfig, error) {
			rules := c.Rules
			if rules == nil {
				rules = ros2.DefaultRules
			}
			return ros2.DeriveConfig(in.TopicList, rules)
		},
		utils.WithMarshalOutput(marshalPlain),
	)
}

func createRenderTemplateTool(c ROS2Components) (tool.InvokableTool, error) {
	return utils.InferTool(
		RenderTemplateToolName,
		"【ROS2专属最终】读取模板文件生成完整node.py代码",
		func(ctx context.Context, in *model.RenderTemplateInput) (string, error) {
			return c.Renderer.Render(in.RobotConfig), nil
		},
		utils.WithMarshalOutput(marshalPlain),
	)
}
