package core

import "testing"

func TestParseEnvironment(t *testing.T) {
	tests := map[string]Environment{
		"production":  Production,
		"staging":     Staging,
		"testing":     Testing,
		"development": Development,
		"":            Development,
		"PRODUCTION":  Development,
	}
	for in, want := range tests {
		if got := ParseEnvironment(in); got != want {
			t.Errorf("ParseEnvironment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnvironmentDecode(t *testing.T) {
	var e Environment
	if err := e.Decode("production"); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !e.IsProduction() {
		t.Fatalf("expected production, got %q", e)
	}
}
