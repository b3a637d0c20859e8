package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/autodriver-poc/server/internal/core"
)

func TestInitProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Output: &buf})
	defer Init(LoggerOpts{Environment: core.Testing, Output: &bytes.Buffer{}})

	Debug().Msg("hidden")
	Info().Str("run_id", "r1").Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, `"run_id":"r1"`) || !strings.Contains(out, `"message":"visible"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestInitLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Level: "warn", Output: &buf})
	defer Init(LoggerOpts{Environment: core.Testing, Output: &bytes.Buffer{}})

	Info().Msg("quiet")
	Warn().Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Fatalf("level override not applied: %s", out)
	}
}
