package parsers

import (
	"context"
	"testing"
)

func TestSanitizeToolArguments(t *testing.T) {
	tests := []struct {
		name, tool, in, want string
	}{
		{"numeric strings", "add", `{"a":"3","b":" 4 "}`, `{"a":3,"b":4}`},
		{"integral floats", "multiply", `{"a":3.0,"b":4}`, `{"a":3,"b":4}`},
		{"fraction kept", "divide", `{"a":7.5,"b":2}`, `{"a":7.5,"b":2}`},
		{"garbage kept", "divide", `{"a":"x","b":2}`, `{"a":"x","b":2}`},
		{"query trimmed", "knowledge_query", `{"query":"  机器人型号 "}`, `{"query":"机器人型号"}`},
		{"query coerced", "knowledge_query", `{"query":12}`, `{"query":"12"}`},
		{"other tool untouched", "ros2_get_topic_list", `{ }`, `{ }`},
		{"not json", "add", `a=3`, `a=3`},
		{"json null", "add", `null`, `null`},
		{"huge float kept", "add", `{"a":1e300,"b":2}`, `{"a":1e+300,"b":2}`},
		{"huge numeric string kept", "multiply", `{"a":"1e300","b":2}`, `{"a":"1e300","b":2}`},
		{"int64 bound kept", "add", `{"a":9223372036854775808,"b":1}`, `{"a":9223372036854775808,"b":1}`},
		{"blank arguments", "ros2_get_topic_list", "  ", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeToolArguments(context.Background(), tt.tool, tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}
