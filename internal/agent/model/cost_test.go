package model

import (
	"math"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestResolvePricing(t *testing.T) {
	if p := ResolvePricing("models/gemini-2.5-flash"); p.InputPerM != 0.30 {
		t.Fatalf("prefixed name not resolved: %+v", p)
	}
	if p := ResolvePricing("qwen3-coder-plus"); p != (Pricing{}) {
		t.Fatalf("unknown model should be free, got %+v", p)
	}
}

func TestComputeCost(t *testing.T) {
	usage := &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 500_000}
	in, out, total := ComputeCost(usage, Pricing{InputPerM: 0.30, OutputPerM: 2.50})
	if math.Abs(in-0.30) > 1e-9 || math.Abs(out-1.25) > 1e-9 || math.Abs(total-1.55) > 1e-9 {
		t.Fatalf("cost = %v/%v/%v", in, out, total)
	}
	if _, _, total := ComputeCost(nil, Pricing{InputPerM: 1}); total != 0 {
		t.Fatalf("nil usage should cost nothing")
	}
}

func TestUsageOf(t *testing.T) {
	if UsageOf(nil) != nil || UsageOf(&schema.Message{}) != nil {
		t.Fatalf("expected nil usage")
	}
	msg := &schema.Message{ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{TotalTokens: 3}}}
	if UsageOf(msg).TotalTokens != 3 {
		t.Fatalf("usage not returned")
	}
}
