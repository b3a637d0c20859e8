package ros2

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTemplate = `import rclpy

# ROBOT_CONFIG below is generated
ROBOT_CONFIG = {
    "publish_topics": {"left_arm": "", "right_arm": "{not a brace}"},
    "control_hz": 10,  # } stray brace in comment
}


def main():
    print(ROBOT_CONFIG["control_hz"])
`

func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node_template.py")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

func TestRenderReplacesWholeBlock(t *testing.T) {
	path := writeTemplate(t, sampleTemplate)
	cfg, _ := DeriveConfig([]string{"/a/target_joint_state_arm_left"}, DefaultRules)

	out := NewTemplateRenderer(path).Render(cfg)

	literal, err := ConfigLiteral(cfg)
	if err != nil {
		t.Fatalf("ConfigLiteral: %v", err)
	}
	want := strings.Replace(sampleTemplate, sampleTemplate[strings.Index(sampleTemplate, "ROBOT_CONFIG = {"):strings.Index(sampleTemplate, "\n\n\ndef")], literal, 1)
	if out != want {
		t.Fatalf("rendered:\n%s\nwant:\n%s", out, want)
	}
	if strings.Contains(out, "stray brace") {
		t.Fatalf("old block left behind")
	}
	if !strings.Contains(out, `print(ROBOT_CONFIG["control_hz"])`) {
		t.Fatalf("text after the block was lost")
	}
}

func TestConfigLiteralFormat(t *testing.T) {
	literal, err := ConfigLiteral(DefaultRobotConfig())
	if err != nil {
		t.Fatalf("ConfigLiteral: %v", err)
	}
	for _, want := range []string{
		"ROBOT_CONFIG = {\n    \"publish_topics\": {\n        \"left_arm\": \"\",",
		"\"top_left\": [\n            1280,\n            720\n        ],",
		"\"torso_cut\": -1",
		"\"control_hz\": 30\n}",
	} {
		if !strings.Contains(literal, want) {
			t.Errorf("literal missing %q:\n%s", want, literal)
		}
	}
	if strings.HasSuffix(literal, "\n") {
		t.Errorf("literal must not end with a newline")
	}
	if strings.Index(literal, "publish_topics") > strings.Index(literal, "camera_size") {
		t.Errorf("keys not in declared order")
	}
}

func TestRenderMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.py")
	got := NewTemplateRenderer(path).Render(DefaultRobotConfig())
	want := "文件不存在错误: " + path + "，请确认模板文件路径正确！"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderUnreadablePath(t *testing.T) {
	dir := t.TempDir()
	got := NewTemplateRenderer(dir).Render(DefaultRobotConfig())
	if !strings.HasPrefix(got, "模板渲染错误: ") {
		t.Fatalf("Render(dir) = %q", got)
	}
}

func TestReplaceConfigBlock(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   string
		wantOK bool
	}{
		{"no block", "x = 1\n", "x = 1\n", false},
		{"unterminated", "ROBOT_CONFIG = {\n 'a': {\n", "ROBOT_CONFIG = {\n 'a': {\n", false},
		{"only first replaced", "ROBOT_CONFIG={}\nROBOT_CONFIG = {}\n", "NEW\nROBOT_CONFIG = {}\n", true},
		{"escaped quote", `ROBOT_CONFIG = {"a": "\"}"} # tail`, "NEW # tail", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReplaceConfigBlock(tt.src, "NEW")
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("ReplaceConfigBlock = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDefaultTemplateRenderer(t *testing.T) {
	if NewTemplateRenderer("").Path != DefaultTemplatePath {
		t.Fatalf("empty path should use the default template")
	}
}
