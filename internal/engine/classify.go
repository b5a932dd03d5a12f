package engine

import (
	"strings"
	"unicode"
)

// Capability tags form a fixed vocabulary shared by the catalog and the
// classifier.
const (
	CapResearchWeb      = "cap:research-web"
	CapTextExplain      = "cap:text-explain"
	CapTextSummarize    = "cap:text-summarize"
	CapTextEdit         = "cap:text-edit"
	CapSlideGenerate    = "cap:slide-generate"
	CapImageGenerate    = "cap:image-generate"
	CapImageEdit        = "cap:image-edit"
	CapVideoGenerate    = "cap:video-generate"
	CapVideoEdit        = "cap:video-edit"
	CapAudioTranscribe  = "cap:audio-transcribe"
	CapVoiceGenerate    = "cap:voice-generate"
	CapAutomateWorkflow = "cap:automate-workflow"
	CapIntegrations     = "cap:integrations"
	CapDocReadPDF       = "cap:doc-read-pdf"
)

// CapabilityVocabulary is the ordered list of official capability tags.
var CapabilityVocabulary = []string{
	CapResearchWeb,
	CapTextExplain,
	CapTextSummarize,
	CapTextEdit,
	CapSlideGenerate,
	CapImageGenerate,
	CapImageEdit,
	CapVideoGenerate,
	CapVideoEdit,
	CapAudioTranscribe,
	CapVoiceGenerate,
	CapAutomateWorkflow,
	CapIntegrations,
	CapDocReadPDF,
}

type capRule struct {
	capability string
	keywords   []string
}

// capRules maps step phrasing to capabilities; first matching group wins, so
// more specific groups sit above the broad text ones.
var capRules = []capRule{
	// video capture and production
	{CapVideoGenerate, []string{"shoot", "film", "record", "footage", "camera", "video material", "capture video"}},
	// video post-production
	{CapVideoEdit, []string{"montage", "edit the video", "edit the clip", "post-production", "cut the", "add effects", "add visual effects"}},
	// visual design
	{CapImageGenerate, []string{"design", "visual", "mockup", "wireframe", "ui", "ux", "graphic", "illustration"}},
	// branding
	{CapImageGenerate, []string{"logo", "brand", "identity", "sketches"}},
	// concepts and copywriting
	{CapTextExplain, []string{"concept", "script", "storyboard", "write", "copywriting", "content", "text", "copy", "messaging"}},
	// explanations and reviews
	{CapTextExplain, []string{"explain", "describe", "review", "define", "outline", "draft"}},
	// summarization
	{CapTextSummarize, []string{"summarize", "summary", "digest", "recap", "condense"}},
	// research
	{CapResearchWeb, []string{"research", "sources", "competitor", "investigate", "explore", "market", "find ", "search"}},
	// audience analysis
	{CapResearchWeb, []string{"audience", "target group", "demographic", "persona"}},
	// documents
	{CapDocReadPDF, []string{"pdf", "document", "read the", "file", "paper"}},
	// presentations
	{CapSlideGenerate, []string{"slide", "deck", "presentation", "powerpoint", "pitch"}},
	// development
	{CapAutomateWorkflow, []string{"develop", "program", "code", "functionality", "api", "implement", "build the"}},
	// testing and optimization
	{CapAutomateWorkflow, []string{"test", "optimize", "debug", "performance", "seo"}},
	// publishing
	{CapIntegrations, []string{"publish", "deploy", "launch", "upload", "release", "go live"}},
	// promotion and marketing
	{CapIntegrations, []string{"promote", "advertis", "marketing", "campaign", "social media"}},
	// automation and integration
	{CapAutomateWorkflow, []string{"automate", "integrate", "connect", "set up"}},
	// organization and scheduling
	{CapAutomateWorkflow, []string{"organize", "schedule", "coordinate", "crew", "team", "resources", "locations"}},
	// analytics
	{CapTextSummarize, []string{"measure", "metrics", "analytics", "statistics", "roi", "analyze results"}},
}

// genericCreateVerbs trigger the default capability when no specific rule
// matched.
var genericCreateVerbs = []string{"create", "generate", "produce", "make"}

// ClassifyStep maps a free-text step description to a capability tag by
// evaluating the ordered rule list. It returns "" when nothing matches,
// which sends the step to semantic-only retrieval. Keywords shorter than
// four letters match whole words only, so "ui" does not fire inside
// "build" or "guide".
func ClassifyStep(step string) string {
	s := strings.ToLower(step)
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}
	match := func(kw string) bool {
		if len(kw) < 4 && !strings.Contains(kw, " ") {
			return words[kw]
		}
		return strings.Contains(s, kw)
	}
	for _, rule := range capRules {
		for _, kw := range rule.keywords {
			if match(kw) {
				return rule.capability
			}
		}
	}
	for _, verb := range genericCreateVerbs {
		if match(verb) {
			return CapTextExplain
		}
	}
	return ""
}
