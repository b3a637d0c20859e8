package parsers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/autodriver-poc/server/internal/agent/graph/tools"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// SanitizeToolArguments normalizes model-produced arguments before a tool sees
// them. It is best-effort: arguments that are not a JSON object pass through.
func SanitizeToolArguments(ctx context.Context, name, arguments string) (string, error) {
	// providers may send no arguments for parameterless tools
	if strings.TrimSpace(arguments) == "" {
		return "{}", nil
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil || m == nil {
		return arguments, nil
	}

	switch name {
	case tools.AddToolName, tools.MultiplyToolName, tools.DivideToolName:
		for _, k := range []string{"a", "b"} {
			if v, ok := m[k]; ok {
				if n, ok := coerceInt(v); ok {
					m[k] = n
				} else {
					logx.Warn().Str("tool_name", name).Str("arg", k).Interface("value", v).
						Msg("Calculator argument is not an integer; passing through")
				}
			}
		}
	case tools.KnowledgeQueryToolName:
		if v, ok := m["query"]; ok {
			switch vv := v.(type) {
			case string:
				m["query"] = strings.TrimSpace(vv)
			default:
				m["query"] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
	default:
		return arguments, nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return arguments, nil
	}
	return string(b), nil
}

// coerceInt accepts JSON numbers with no fractional part and numeric strings.
// Values outside the int64 range are rejected.
func coerceInt(v any) (int64, bool) {
	switch vv := v.(type) {
	case float64:
		return wholeFloat(vv)
	case string:
		s := strings.TrimSpace(vv)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return wholeFloat(f)
		}
	}
	return 0, false
}

// wholeFloat converts f when it is integral and fits in int64. float64(math.MaxInt64)
// rounds up to 2^63, so the upper bound is exclusive.
func wholeFloat(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
