package prompts

import (
	"context"
	"strings"
	"testing"
)

func TestListPrompts(t *testing.T) {
	r := NewRegistry()

	defs := r.ListPrompts(context.Background())
	if len(defs) != 3 {
		t.Fatalf("expected 3 prompts, got %d", len(defs))
	}
	want := map[string]bool{
		"campaign_performance_review": false,
		"budget_reallocation_plan":    false,
		"strategy_optimization":       false,
	}
	for _, def := range defs {
		if _, ok := want[def.Name]; !ok {
			t.Fatalf("unexpected prompt %q", def.Name)
		}
		want[def.Name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing prompt %q", name)
		}
	}
}

func TestGetPromptUnknownName(t *testing.T) {
	r := NewRegistry()

	_, found, err := r.GetPrompt(context.Background(), "does_not_exist", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected found=false for an unknown prompt")
	}
}

func TestGetPromptRendersArguments(t *testing.T) {
	r := NewRegistry()

	res, found, err := r.GetPrompt(context.Background(), "campaign_performance_review", map[string]string{
		"campaign_id":   "12345",
		"lookback_days": "7",
	})
	if err != nil || !found {
		t.Fatalf("unexpected result: found=%v err=%v", found, err)
	}
	if len(res.Messages) != 1 || res.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages: %+v", res.Messages)
	}
	text := res.Messages[0].Content.Text
	if !strings.Contains(text, "12345") || !strings.Contains(text, "7 days") {
		t.Fatalf("expected arguments rendered into text, got %q", text)
	}
}

func TestGetPromptDefaultsOptionalArguments(t *testing.T) {
	r := NewRegistry()

	res, found, err := r.GetPrompt(context.Background(), "strategy_optimization", map[string]string{
		"strategy_id": "67890",
	})
	if err != nil || !found {
		t.Fatalf("unexpected result: found=%v err=%v", found, err)
	}
	if !strings.Contains(res.Messages[0].Content.Text, "conversions") {
		t.Fatalf("expected default goal in text, got %q", res.Messages[0].Content.Text)
	}
}

func TestGetPromptMissingRequiredArgument(t *testing.T) {
	r := NewRegistry()

	_, found, err := r.GetPrompt(context.Background(), "budget_reallocation_plan", nil)
	if !found {
		t.Fatal("expected the prompt to be found")
	}
	if err == nil || !strings.Contains(err.Error(), "organization_id") {
		t.Fatalf("expected missing-argument error, got %v", err)
	}
}
