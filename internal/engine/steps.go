package engine

import (
	"context"
	"log"
	"strings"
)

const maxGeneratedSteps = 5

// StepGenerator wraps the generative step provider with the deterministic
// safety net: every failure mode resolves to a goal-keyword fallback list.
type StepGenerator struct {
	provider StepProvider
	logger   *log.Logger
}

func NewStepGenerator(provider StepProvider, logger *log.Logger) *StepGenerator {
	if logger == nil {
		logger = log.New(log.Writer(), "[STEPS] ", log.LstdFlags)
	}
	return &StepGenerator{provider: provider, logger: logger}
}

// Steps returns 3-5 macro steps for the goal. Missing credentials (nil
// provider), provider errors, empty output and too-generic output all yield
// the deterministic fallback; the caller never sees an error.
func (g *StepGenerator) Steps(ctx context.Context, goal, model string) []string {
	if g.provider == nil {
		return fallbackSteps(goal)
	}
	steps, err := g.provider.GenerateSteps(ctx, goal, goalContext(goal), model)
	if err != nil {
		g.logger.Printf("step provider failed, using fallback: %v", err)
		return fallbackSteps(goal)
	}
	steps = cleanSteps(steps)
	if len(steps) == 0 || tooGeneric(steps) {
		return fallbackSteps(goal)
	}
	return steps
}

func cleanSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) >= maxGeneratedSteps {
			break
		}
	}
	return out
}

// genericPhrases flag steps that describe process boilerplate instead of the
// actual work.
var genericPhrases = []string{
	"clarify",
	"gather information",
	"prepare materials",
	"prepare the result",
	"find tools",
	"finalize",
	"define the requirements",
	"define goals",
	"collect information",
	"analyze needs",
	"research the needs",
}

// tooGeneric reports whether more than half of the steps match the generic
// phrase list.
func tooGeneric(steps []string) bool {
	if len(steps) == 0 {
		return false
	}
	count := 0
	for _, step := range steps {
		s := strings.ToLower(step)
		for _, p := range genericPhrases {
			if strings.Contains(s, p) {
				count++
				break
			}
		}
	}
	return count*2 > len(steps)
}

// goalContext adds focus hints for the step prompt based on goal keywords.
func goalContext(goal string) string {
	g := strings.ToLower(goal)
	switch {
	case containsAny(g, "music video", "video clip", "videoclip", "short film"):
		return "Context: producing a music/video clip.\nFocus on: concept, shooting, editing, post-production, publishing."
	case containsAny(g, "website", "web site", "landing"):
		return "Context: building a website.\nFocus on: design, development, content, optimization, publishing."
	case containsAny(g, "marketing", "campaign", "advertis", "promotion"):
		return "Context: marketing and advertising.\nFocus on: audience, strategy, content, channels, analysis."
	case containsAny(g, "logo", "brand", "visual identity"):
		return "Context: visual identity and branding.\nFocus on: concept, design, variations, applications, delivery."
	case containsAny(g, "presentation", "pitch", "deck"):
		return "Context: business presentation.\nFocus on: content, structure, visualization, preparation, delivery."
	default:
		return "Context: general task/project.\nFocus on the concrete activities this specific goal requires."
	}
}

// fallbackSteps is the deterministic, goal-keyword-selected step list used
// whenever generative step production is unavailable or unsatisfactory.
func fallbackSteps(goal string) []string {
	g := strings.ToLower(goal)
	switch {
	case containsAny(g, "music video", "video clip", "videoclip"):
		return []string{
			"Develop the concept and write the script",
			"Organize the crew and locations",
			"Shoot the video material",
			"Edit the clip and add visual effects",
			"Publish and promote on social media",
		}
	case containsAny(g, "website", "web site", "landing"):
		return []string{
			"Design the structure and user flow",
			"Create the visual design and mockups",
			"Develop the functionality and content",
			"Test and optimize performance",
			"Publish and set up SEO",
		}
	case containsAny(g, "marketing", "campaign", "advertis"):
		return []string{
			"Research and define the target audience",
			"Develop the content strategy and messaging",
			"Create visual and text materials",
			"Set up and launch the ad campaigns",
			"Analyze the results and optimize",
		}
	case strings.Contains(g, "logo"):
		return []string{
			"Research the brand and the competition",
			"Create concepts and sketches",
			"Develop the final variants",
			"Test and refine the design",
			"Prepare files for different applications",
		}
	case containsAny(g, "presentation", "pitch", "deck"):
		return []string{
			"Define the key messages and structure",
			"Collect data and supporting evidence",
			"Create visual content and charts",
			"Lay out the slides with a professional design",
			"Prepare speaker notes and rehearse",
		}
	default:
		return []string{
			"Analyze the goal and define the outcomes",
			"Plan the approach and necessary resources",
			"Create the core content or product",
			"Review and improve the quality",
			"Finish up and deliver the result",
		}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
