package engine

import (
	"context"
	"strings"
	"testing"
)

func TestScoreToolPrefersHigherRating(t *testing.T) {
	tool := ToolRecord{Name: "SomeNicheTool", Tags: []string{CapImageGenerate}}

	low := newTestEngine(t, nil, map[string]float64{"SomeNicheTool": 0.1})
	high := newTestEngine(t, nil, map[string]float64{"SomeNicheTool": 0.9})

	a := low.scoreTool(tool, "make art", CapImageGenerate, "generate an image")
	b := high.scoreTool(tool, "make art", CapImageGenerate, "generate an image")
	if b <= a {
		t.Fatalf("score with rating 0.9 (%f) not above rating 0.1 (%f)", b, a)
	}
}

func TestScoreToolLiveRatingBeatsPriorOnlyWhenHigher(t *testing.T) {
	tool := ToolRecord{Name: "ChatGPT", Tags: []string{CapTextExplain}}

	// ChatGPT's static prior is 1.0, a lower live rating must not drag it down
	low := newTestEngine(t, nil, map[string]float64{"ChatGPT": 0.2})
	none := newTestEngine(t, nil, nil)

	a := low.scoreTool(tool, "write a post", CapTextExplain, "draft text")
	b := none.scoreTool(tool, "write a post", CapTextExplain, "draft text")
	if a != b {
		t.Fatalf("live rating below the prior changed the score: %f vs %f", a, b)
	}
}

func TestScoreToolTagBonus(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	with := ToolRecord{Name: "X1", Tags: []string{CapImageGenerate}}
	without := ToolRecord{Name: "X1", Tags: []string{CapVideoEdit}}

	a := eng.scoreTool(with, "goal", CapImageGenerate, "query")
	b := eng.scoreTool(without, "goal", CapImageGenerate, "query")
	if a <= b {
		t.Fatalf("matching capability tag did not raise the score: %f vs %f", a, b)
	}
}

func TestScoreToolLearningPenalty(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	tool := ToolRecord{Name: "TempChatWidget", Tags: []string{CapTextSummarize}}

	deprioritizeForLearning[tool.Name] = true
	defer delete(deprioritizeForLearning, tool.Name)

	penalized := eng.scoreTool(tool, "learn scrum basics", "", "notes")
	delete(deprioritizeForLearning, tool.Name)
	plain := eng.scoreTool(tool, "learn scrum basics", "", "notes")

	if diff := plain - penalized; diff < learningPenalty-1e-9 || diff > learningPenalty+1e-9 {
		t.Fatalf("penalty = %f, want %f", diff, learningPenalty)
	}
}

func TestReRankDeduplicatesByName(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	dup := ToolRecord{Name: "Midjourney", Tags: []string{CapImageGenerate}, Links: map[string]string{"website": "https://www.midjourney.com/"}}
	candidates := []ToolRecord{dup, dup, dup, {Name: "Canva", Tags: []string{CapImageGenerate}}}

	out := eng.reRank(context.Background(), candidates, "make a poster", CapImageGenerate, "poster", rerankTopN, false)
	seen := map[string]bool{}
	for _, x := range out {
		if seen[x.Name] {
			t.Fatalf("duplicate %q in re-ranked output: %v", x.Name, out)
		}
		seen[x.Name] = true
	}
	if len(out) != 2 {
		t.Fatalf("output size = %d, want 2", len(out))
	}
}

func TestReRankUniversalGuarantee(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	candidates := []ToolRecord{
		{Name: "Midjourney", Tags: []string{CapImageGenerate}},
		{Name: "Canva", Tags: []string{CapImageGenerate}},
		{Name: "Runway", Tags: []string{CapVideoGenerate}},
	}
	out := eng.reRank(context.Background(), candidates, "study topic", "", "query", rerankTopN, true)
	if countUniversal(head(out, 3)) == 0 {
		t.Fatalf("no universal tool injected into top-3: %v", out)
	}
	// injection must not duplicate names
	seen := map[string]bool{}
	for _, x := range out {
		if seen[x.Name] {
			t.Fatalf("duplicate %q after universal injection: %v", x.Name, out)
		}
		seen[x.Name] = true
	}
}

func TestReRankUniversalGuaranteeSkippedWhenPresent(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	candidates := []ToolRecord{
		{Name: "ChatGPT", Tags: []string{CapTextExplain}},
		{Name: "Midjourney", Tags: []string{CapImageGenerate}},
	}
	out := eng.reRank(context.Background(), candidates, "study topic", "", "query", rerankTopN, true)
	if len(out) != 2 {
		t.Fatalf("output size = %d, want 2 (nothing injected)", len(out))
	}
}

func TestReRankDiversityInjection(t *testing.T) {
	eng := newTestEngine(t, nil, map[string]float64{
		"ChatGPT": 1.0, "Claude": 0.99, "Gemini": 0.98, "Perplexity": 0.97,
	})
	candidates := []ToolRecord{
		{Name: "ChatGPT", Tags: []string{CapTextExplain}},
		{Name: "Claude", Tags: []string{CapTextExplain}},
		{Name: "Gemini", Tags: []string{CapTextExplain}},
		{Name: "Perplexity", Tags: []string{CapTextExplain}},
		{Name: "Jasper", Tags: []string{CapTextExplain}},
		{Name: "Copy.ai", Tags: []string{CapTextExplain}},
	}
	out := eng.reRank(context.Background(), candidates, "write copy", CapTextExplain, "copy", rerankTopN, false)
	if len(out) > rerankTopN {
		t.Fatalf("output size = %d, want <= %d", len(out), rerankTopN)
	}
	seen := map[string]bool{}
	for _, x := range out {
		if seen[x.Name] {
			t.Fatalf("duplicate %q after diversity injection: %v", x.Name, out)
		}
		seen[x.Name] = true
	}
	// positions 5 and 6 get pulled to 5, the universal head stays put
	if out[4].Name != "Jasper" && out[4].Name != "Copy.ai" {
		t.Errorf("expected a non-universal alternative at position 5, got %q", out[4].Name)
	}
}

func TestIsLearningQuery(t *testing.T) {
	cases := map[string]bool{
		"how do I learn Scrum":      true,
		"teach me about databases":  true,
		"what is agile":             true,
		"create a logo for a shop":  false,
		"plan a birthday party":     false,
		"tutorial on oil painting":  true,
		"launch a product campaign": false,
	}
	for goal, want := range cases {
		if got := isLearningQuery(goal); got != want {
			t.Errorf("isLearningQuery(%q) = %v, want %v", goal, got, want)
		}
	}
}

func TestDisplayInfoFavicon(t *testing.T) {
	info := displayInfo(ToolRecord{Name: "X", Links: map[string]string{"website": "https://example.com/product"}})
	if !strings.Contains(info.Icon, "example.com") || !strings.Contains(info.Icon, "s2/favicons") {
		t.Fatalf("derived icon = %q", info.Icon)
	}

	withIcon := displayInfo(ToolRecord{Name: "X", IconURL: "https://cdn.example.com/x.png"})
	if withIcon.Icon != "https://cdn.example.com/x.png" {
		t.Fatalf("explicit icon overridden: %q", withIcon.Icon)
	}
}
