package engine

import "regexp"

// templateStep is one fixed task with its capability list.
type templateStep struct {
	Task string
	Caps []string
}

// learningCanonical is the fixed 3-step plan for study-type goals.
var learningCanonical = []templateStep{
	{"Discover what the topic is and why it matters", []string{CapResearchWeb, CapTextExplain}},
	{"Find and organize quality learning materials", []string{CapResearchWeb, CapTextSummarize, CapDocReadPDF}},
	{"Practice, summarize and ask for feedback", []string{CapTextExplain, CapSlideGenerate}},
}

// Template is a canned plan for a recognized goal topic. Templates are loaded
// at process start and immutable thereafter.
type Template struct {
	Name  string
	Match *regexp.Regexp
	Steps []templateStep
}

var planTemplates = []Template{
	{
		Name:  "video_production",
		Match: regexp.MustCompile(`(?i)\b(music\s+video|video\s*clip|videoclip|short\s+film)\b`),
		Steps: []templateStep{
			{"Develop the concept and write the script", []string{CapTextExplain, CapImageGenerate}},
			{"Organize the crew and locations", []string{CapResearchWeb, CapAutomateWorkflow}},
			{"Shoot the video material", []string{CapVideoGenerate}},
			{"Edit the clip and add effects", []string{CapVideoEdit, CapImageEdit}},
			{"Publish and promote", []string{CapIntegrations, CapAutomateWorkflow}},
		},
	},
	{
		Name:  "logo",
		Match: regexp.MustCompile(`(?i)\b(logo|brand|branding)\b`),
		Steps: []templateStep{
			{"Clarify the needs and style direction", []string{CapTextExplain}},
			{"Generate concepts and visual directions", []string{CapImageGenerate}},
			{"Prepare the final package", []string{CapImageEdit, CapSlideGenerate}},
		},
	},
	{
		Name:  "pitch_deck",
		Match: regexp.MustCompile(`(?i)\b(deck|pitch|presentation|investor)\b`),
		Steps: []templateStep{
			{"Collect data and examples", []string{CapResearchWeb, CapTextSummarize}},
			{"Create the structure and copywriting", []string{CapTextExplain}},
			{"Visualize the slides", []string{CapSlideGenerate, CapImageGenerate}},
		},
	},
	{
		Name:  "social_marketing",
		Match: regexp.MustCompile(`(?i)\b(marketing|instagram|facebook|linkedin|tiktok|reels|ugc)\b`),
		Steps: []templateStep{
			{"Research the audience and competitors", []string{CapResearchWeb, CapTextSummarize}},
			{"Create a content plan", []string{CapTextExplain}},
			{"Generate creatives (visuals/video)", []string{CapImageGenerate, CapVideoGenerate}},
			{"Plan and automate publishing", []string{CapAutomateWorkflow, CapIntegrations}},
		},
	},
	{
		Name:  "website",
		Match: regexp.MustCompile(`(?i)\b(website|web\s*site|landing\s*page|landing)\b`),
		Steps: []templateStep{
			{"Define the structure and content", []string{CapResearchWeb, CapTextExplain}},
			{"Generate copywriting and images", []string{CapTextExplain, CapImageGenerate}},
			{"Assemble the site with no-code/integrations", []string{CapAutomateWorkflow, CapIntegrations}},
			{"Presentation/handoff", []string{CapSlideGenerate}},
		},
	},
}

// matchTemplate returns the first template whose pattern matches the goal,
// or nil.
func matchTemplate(goal string) *Template {
	for i := range planTemplates {
		if planTemplates[i].Match.MatchString(goal) {
			return &planTemplates[i]
		}
	}
	return nil
}
