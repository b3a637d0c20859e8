package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestRenderDecideSystemListsTools(t *testing.T) {
	msg, err := RenderDecideSystem(context.Background())
	if err != nil {
		t.Fatalf("RenderDecideSystem: %v", err)
	}
	if msg.Role != schema.System {
		t.Fatalf("role = %s, want system", msg.Role)
	}
	for _, name := range []string{"add", "multiply", "divide", "knowledge_query", "ros2_get_topic_list", "ros2_parse_topic_to_config", "ros2_render_node_template"} {
		if !strings.Contains(msg.Content, name) {
			t.Errorf("prompt does not mention %s", name)
		}
	}
	if strings.Contains(msg.Content, "{{") {
		t.Fatalf("unrendered placeholder left in prompt")
	}
}

func TestRenderSummarize(t *testing.T) {
	msg, err := RenderSummarize(context.Background(), "7", "Add 3 and 4")
	if err != nil {
		t.Fatalf("RenderSummarize: %v", err)
	}
	want := "请根据下面的内容，用简洁的中文回答用户的问题，不要多余内容：\n参考内容：7\n用户问题：Add 3 and 4\n"
	if msg.Role != schema.User || msg.Content != want {
		t.Fatalf("got %s %q", msg.Role, msg.Content)
	}
}

func TestRenderSummarizeKeepsBraces(t *testing.T) {
	msg, err := RenderSummarize(context.Background(), `{"a": 1}`, "q")
	if err != nil {
		t.Fatalf("RenderSummarize: %v", err)
	}
	if !strings.Contains(msg.Content, `{"a": 1}`) {
		t.Fatalf("reference altered: %q", msg.Content)
	}
}
