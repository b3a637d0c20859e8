package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/autodriver-poc/server/internal/agent/model"
	"github.com/autodriver-poc/server/internal/agent/ros2"
)

type fakeKB struct{ got string }

func (f *fakeKB) Context(_ context.Context, q string) (string, error) {
	f.got = q
	return "机器人前进指令：move_forward(distance)\n机器人左转指令：turn_left(angle)", nil
}

type fakeTopics struct{ topics []string }

func (f fakeTopics) ListTopics(context.Context) ([]string, error) { return f.topics, nil }

type echoRenderer struct{}

func (echoRenderer) Render(cfg model.RobotConfig) string {
	return "node for " + cfg.PublishTopics.LeftArm
}

func newTestRegistry(t *testing.T, kb ContextRetriever) *Registry {
	t.Helper()
	ros := ROS2Components{
		Topics:   fakeTopics{topics: []string{"/hdas/target_joint_state_arm_left"}},
		Renderer: echoRenderer{},
	}
	r, err := NewDefaultRegistry(context.Background(), kb, ros)
	if err != nil {
		t.Fatalf("NewDefaultRegistry: %v", err)
	}
	return r
}

func run(t *testing.T, r *Registry, name, args string) (string, error) {
	t.Helper()
	tl, ok := r.Get(name)
	if !ok {
		t.Fatalf("tool %s not registered", name)
	}
	return tl.InvokableRun(context.Background(), args)
}

func TestRegistryOrder(t *testing.T) {
	r := newTestRegistry(t, &fakeKB{})
	want := []string{"add", "multiply", "divide", "knowledge_query", "ros2_get_topic_list", "ros2_parse_topic_to_config", "ros2_render_node_template"}
	got := r.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Names() = %v", got)
	}
	if len(r.BaseTools()) != 7 || len(r.ToolInfos()) != 7 {
		t.Fatalf("registry lost tools")
	}
	if _, ok := r.Get("subtract"); ok {
		t.Fatalf("unknown tool must not resolve")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	dup := utils.NewTool(&schema.ToolInfo{Name: AddToolName, Desc: "again"},
		func(ctx context.Context, in *model.OperandsInput) (int, error) { return 0, nil })
	_, err := NewRegistry(context.Background(), []tool.InvokableTool{createAddTool(), dup}...)
	if err == nil || !strings.Contains(err.Error(), `"add"`) {
		t.Fatalf("err = %v, want duplicate name error", err)
	}
}

func TestCalculatorTools(t *testing.T) {
	r := newTestRegistry(t, &fakeKB{})
	tests := []struct {
		name, args, want string
	}{
		{AddToolName, `{"a":3,"b":4}`, "7"},
		{MultiplyToolName, `{"a":6,"b":7}`, "42"},
		{DivideToolName, `{"a":7,"b":2}`, "3.5"},
		{DivideToolName, `{"a":8,"b":2}`, "4.0"},
		{DivideToolName, `{"a":-9,"b":4}`, "-2.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name+tt.args, func(t *testing.T) {
			got, err := run(t, r, tt.name, tt.args)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDivideByZeroFails(t *testing.T) {
	r := newTestRegistry(t, &fakeKB{})
	_, err := run(t, r, DivideToolName, `{"a":1,"b":0}`)
	if err == nil || !strings.Contains(err.Error(), ErrDivisionByZero.Error()) {
		t.Fatalf("err = %v, want division by zero", err)
	}
}

func TestKnowledgeQueryTool(t *testing.T) {
	kb := &fakeKB{}
	r := newTestRegistry(t, kb)
	got, err := run(t, r, KnowledgeQueryToolName, `{"query":"  机器人前进指令是什么？ "}`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if kb.got != "机器人前进指令是什么？" {
		t.Fatalf("query not trimmed: %q", kb.got)
	}
	if !strings.HasPrefix(got, "机器人前进指令") || strings.HasPrefix(got, `"`) {
		t.Fatalf("output = %q, want plain text", got)
	}
	if _, err := run(t, r, KnowledgeQueryToolName, `{"query":""}`); err == nil {
		t.Fatalf("empty query must fail")
	}
}

func TestROS2Tools(t *testing.T) {
	r := newTestRegistry(t, &fakeKB{})

	list, err := run(t, r, TopicListToolName, `{}`)
	if err != nil {
		t.Fatalf("topic list: %v", err)
	}
	if list != `["/hdas/target_joint_state_arm_left"]` {
		t.Fatalf("topic list = %s", list)
	}

	cfgJSON, err := run(t, r, ParseTopicsToolName, `{"topic_list":["/hdas/target_joint_state_arm_left"]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var cfg model.RobotConfig
	if err := json.Unmarshal([]byte(cfgJSON), &cfg); err != nil {
		t.Fatalf("parse output is not a config: %v", err)
	}
	want, _ := ros2.DeriveConfig([]string{"/hdas/target_joint_state_arm_left"}, ros2.DefaultRules)
	if cfg != want {
		t.Fatalf("config = %+v", cfg)
	}

	args, _ := json.Marshal(model.RenderTemplateInput{RobotConfig: cfg})
	out, err := run(t, r, RenderTemplateToolName, string(args))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "node for /hdas/target_joint_state_arm_left" {
		t.Fatalf("render = %q", out)
	}
}

func TestInferredSchemas(t *testing.T) {
	r := newTestRegistry(t, &fakeKB{})
	for _, info := range r.ToolInfos() {
		if info.Name == TopicListToolName {
			continue
		}
		if info.ParamsOneOf == nil {
			t.Errorf("%s has no parameter schema", info.Name)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	for in, want := range map[float64]string{0.5: "0.5", 2: "2.0", -3: "-3.0", 1e21: "1000000000000000000000.0"} {
		if got := formatFloat(in); got != want {
			t.Errorf("formatFloat(%v) = %q, want %q", in, got, want)
		}
	}
	if got, err := marshalPlain(context.Background(), map[string]int{"a": 1}); err != nil || got != `{"a":1}` {
		t.Errorf("marshalPlain(map) = %q, %v", got, err)
	}
}
