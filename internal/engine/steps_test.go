package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStepsNilProviderUsesFallback(t *testing.T) {
	g := NewStepGenerator(nil, quietLogger())
	steps := g.Steps(context.Background(), "build a website for my shop", "")
	if len(steps) != 5 {
		t.Fatalf("steps = %d, want 5", len(steps))
	}
	if !strings.Contains(strings.ToLower(steps[0]), "structure") {
		t.Errorf("website fallback not selected: %q", steps[0])
	}
}

func TestStepsProviderErrorUsesFallback(t *testing.T) {
	g := NewStepGenerator(&stubStepProvider{err: errors.New("boom")}, quietLogger())
	steps := g.Steps(context.Background(), "anything at all", "")
	if len(steps) != 5 {
		t.Fatalf("steps = %d, want 5", len(steps))
	}
}

func TestStepsCapsAtFive(t *testing.T) {
	provider := &stubStepProvider{steps: []string{
		"Interview stakeholders about the product",
		"Map the customer journey end to end",
		"Draft the feature backlog",
		"Estimate the engineering effort",
		"Assemble the release timeline",
		"Write the launch announcement",
		"Collect beta feedback",
	}}
	g := NewStepGenerator(provider, quietLogger())
	steps := g.Steps(context.Background(), "ship a new product", "")
	if len(steps) != 5 {
		t.Fatalf("steps = %d, want 5 (capped)", len(steps))
	}
}

func TestStepsTooGenericUsesFallback(t *testing.T) {
	provider := &stubStepProvider{steps: []string{
		"Clarify the objectives",
		"Gather information about the task",
		"Finalize everything",
	}}
	g := NewStepGenerator(provider, quietLogger())
	steps := g.Steps(context.Background(), "organize a conference", "")
	if steps[0] != "Analyze the goal and define the outcomes" {
		t.Fatalf("generic provider output was not replaced: %v", steps)
	}
}

func TestStepsBlankEntriesDropped(t *testing.T) {
	provider := &stubStepProvider{steps: []string{
		"  ", "Scout three venues near the city center", "", "Negotiate catering offers",
	}}
	g := NewStepGenerator(provider, quietLogger())
	steps := g.Steps(context.Background(), "organize a conference", "")
	if len(steps) != 2 {
		t.Fatalf("steps = %v, want the two non-blank entries", steps)
	}
}

func TestFallbackStepsKeyedByGoal(t *testing.T) {
	cases := []struct {
		goal     string
		contains string
	}{
		{"shoot a music video", "script"},
		{"new landing for the product", "structure"},
		{"run an advertising campaign", "audience"},
		{"logo for the bakery", "brand"},
		{"investor pitch next week", "messages"},
		{"something else entirely", "Analyze the goal"},
	}
	for _, tc := range cases {
		steps := fallbackSteps(tc.goal)
		if len(steps) != 5 {
			t.Fatalf("fallbackSteps(%q) = %d steps, want 5", tc.goal, len(steps))
		}
		joined := strings.ToLower(strings.Join(steps, " "))
		if !strings.Contains(joined, strings.ToLower(tc.contains)) {
			t.Errorf("fallbackSteps(%q) missing %q: %v", tc.goal, tc.contains, steps)
		}
	}
}

func TestGoalContextHints(t *testing.T) {
	if !strings.Contains(goalContext("make a music video"), "music/video") {
		t.Errorf("music video context not selected")
	}
	if !strings.Contains(goalContext("totally unrelated"), "general task") {
		t.Errorf("default context not selected")
	}
}
