package engine

import "testing"

func TestClassifyStep(t *testing.T) {
	cases := []struct {
		step string
		want string
	}{
		{"Shoot the video material", CapVideoGenerate},
		{"Edit the clip and add effects", CapVideoEdit},
		{"Create the visual design and mockups", CapImageGenerate},
		{"Develop the final logo variants", CapImageGenerate},
		{"Write the script and storyboard", CapTextExplain},
		{"Summarize the customer interviews", CapTextSummarize},
		{"Research the audience and competitors", CapResearchWeb},
		{"Read the PDF contract carefully", CapDocReadPDF},
		{"Lay out the slides with a professional design", CapImageGenerate}, // "design" wins over "slides"
		{"Build a pitch deck", CapSlideGenerate},
		{"Implement the API endpoints", CapAutomateWorkflow},
		{"Test and optimize performance", CapAutomateWorkflow},
		{"Publish and promote on social media", CapIntegrations},
		{"Organize the crew and locations", CapAutomateWorkflow},
		{"Measure the campaign roi", CapIntegrations}, // "campaign" hits the promotion group first
		{"Create something wonderful", CapTextExplain},
		{"Relax and enjoy", ""},
	}
	for _, tc := range cases {
		if got := ClassifyStep(tc.step); got != tc.want {
			t.Errorf("ClassifyStep(%q) = %q, want %q", tc.step, got, tc.want)
		}
	}
}

func TestClassifyStepShortKeywordsMatchWholeWords(t *testing.T) {
	cases := []struct {
		step string
		want string
	}{
		{"Polish the ui and ux flows", CapImageGenerate},
		{"Build the landing page", CapAutomateWorkflow},
		{"Write a quick user guide", CapTextExplain}, // "guide" must not trip "ui"
		{"Raise capital from investors", ""},         // "capital" must not trip "api"
	}
	for _, tc := range cases {
		if got := ClassifyStep(tc.step); got != tc.want {
			t.Errorf("ClassifyStep(%q) = %q, want %q", tc.step, got, tc.want)
		}
	}
}

func TestClassifyStepOrderIsFirstMatchWins(t *testing.T) {
	// both a video-capture and an edit keyword appear; the capture group is
	// evaluated first
	if got := ClassifyStep("Record the footage and cut the best takes"); got != CapVideoGenerate {
		t.Fatalf("got %q, want %q", got, CapVideoGenerate)
	}
}

func TestCapabilityVocabularyCoversRules(t *testing.T) {
	known := map[string]bool{}
	for _, c := range CapabilityVocabulary {
		known[c] = true
	}
	for _, rule := range capRules {
		if !known[rule.capability] {
			t.Errorf("rule capability %q missing from vocabulary", rule.capability)
		}
	}
}
