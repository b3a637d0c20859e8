package ros2

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/autodriver-poc/server/internal/agent/model"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// DefaultTemplatePath is where the GALAXEA node template lives relative to the working directory.
const DefaultTemplatePath = "data/ros2/template/galaxea/node_template.py"

const configName = "ROBOT_CONFIG"

var configBlockStart = regexp.MustCompile(configName + `\s*=\s*\{`)

// TemplateRenderer substitutes the ROBOT_CONFIG block of a template file.
type TemplateRenderer struct {
	Path string
}

func NewTemplateRenderer(path string) *TemplateRenderer {
	if path == "" {
		path = DefaultTemplatePath
	}
	return &TemplateRenderer{Path: path}
}

// MissingTemplateMessage is the sentinel returned when the template file does not exist.
func MissingTemplateMessage(path string) string {
	return fmt.Sprintf("文件不存在错误: %s，请确认模板文件路径正确！", path)
}

// Render returns the template with the config substituted. File problems are
// reported as human-readable sentinel text, not as errors.
func (r *TemplateRenderer) Render(cfg model.RobotConfig) string {
	raw, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logx.Error().Str("path", r.Path).Msg("Node template not found")
			return MissingTemplateMessage(r.Path)
		}
		logx.Error().Err(err).Str("path", r.Path).Msg("Node template unreadable")
		return fmt.Sprintf("模板渲染错误: %v", err)
	}

	literal, err := ConfigLiteral(cfg)
	if err != nil {
		return fmt.Sprintf("模板渲染错误: %v", err)
	}

	out, ok := ReplaceConfigBlock(string(raw), literal)
	if !ok {
		logx.Warn().Str("path", r.Path).Msg("Template has no ROBOT_CONFIG block; returned unchanged")
	}
	return out
}

// ConfigLiteral serializes cfg as `ROBOT_CONFIG = {...}` with 4-space indentation.
func ConfigLiteral(cfg model.RobotConfig) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("encode robot config: %w", err)
	}
	return configName + " = " + string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// ReplaceConfigBlock replaces the first ROBOT_CONFIG = {...} assignment in src,
// matching braces so nested dictionaries are replaced whole. It reports false
// and returns src unchanged when no complete block exists.
func ReplaceConfigBlock(src, literal string) (string, bool) {
	loc := configBlockStart.FindStringIndex(src)
	if loc == nil {
		return src, false
	}
	end, ok := matchBrace(src, loc[1]-1)
	if !ok {
		return src, false
	}
	return src[:loc[0]] + literal + src[end+1:], true
}

// matchBrace returns the index of the brace closing the one at open,
// skipping braces inside quoted strings and comments.
func matchBrace(s string, open int) (int, bool) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
