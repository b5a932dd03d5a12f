package engine

import (
	"context"
	"log"
	"strings"
)

// fallbackTool guarantees no step is ever returned without a recommendation.
var fallbackTool = ToolInfo{Name: "ChatGPT", Link: "https://chat.openai.com/"}

// Engine is the recommendation and planning engine. It owns the catalog
// indices and consumes the ratings cache and the generative step provider
// through narrow interfaces.
type Engine struct {
	catalog Catalog
	index   *CatalogIndex
	ratings Ratings
	steps   *StepGenerator
	logger  *log.Logger
}

// New builds an engine over the catalog. newEmbedder may be nil (semantic
// retrieval disabled); stepProvider may be nil (generative branch falls back
// to the deterministic step lists).
func New(catalog Catalog, newEmbedder func() (Embedder, error), ratings Ratings, stepProvider StepProvider, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(log.Writer(), "[ENGINE] ", log.LstdFlags)
	}
	return &Engine{
		catalog: catalog,
		index:   NewCatalogIndex(catalog, newEmbedder, logger),
		ratings: ratings,
		steps:   NewStepGenerator(stepProvider, logger),
		logger:  logger,
	}
}

// Index exposes the catalog indices for rebuild scheduling.
func (e *Engine) Index() *CatalogIndex { return e.index }

// RebuildIndices rebuilds both indices from the current catalog snapshot.
func (e *Engine) RebuildIndices(ctx context.Context) error {
	return e.index.Rebuild(ctx)
}

// GeneratePlan turns a free-text goal into an ordered plan. The three
// branches are mutually exclusive and evaluated in order: learning goals get
// the canonical 3-step plan, recognized topics get their template, everything
// else goes through the generative branch with its deterministic safety net.
// The returned string is the strategy label of the branch taken.
func (e *Engine) GeneratePlan(ctx context.Context, goal, model string) (Plan, string, error) {
	e.ratings.Ensure(ctx)
	e.index.EnsureIndices(ctx)

	goal = strings.TrimSpace(goal)

	if isLearningQuery(goal) {
		return e.assemble(goal, e.fixedSteps(ctx, goal, learningCanonical, true)), StrategyLearning, nil
	}
	if tpl := matchTemplate(goal); tpl != nil {
		return e.assemble(goal, e.fixedSteps(ctx, goal, tpl.Steps, false)), StrategyTemplate, nil
	}

	var steps []PlanStep
	for _, task := range e.steps.Steps(ctx, goal, model) {
		capability := ClassifyStep(task)
		var caps []string
		if capability != "" {
			caps = []string{capability}
		}
		steps = append(steps, e.buildStep(ctx, goal, task, caps, false))
	}
	return e.assemble(goal, steps), StrategyGenerative, nil
}

// fixedSteps materializes a canned step list (learning canonical or template).
func (e *Engine) fixedSteps(ctx context.Context, goal string, tmpl []templateStep, ensureUniversal bool) []PlanStep {
	out := make([]PlanStep, 0, len(tmpl))
	for _, ts := range tmpl {
		out = append(out, e.buildStep(ctx, goal, ts.Task, ts.Caps, ensureUniversal))
	}
	return out
}

// buildStep gathers candidates for one step (per capability, else semantic),
// re-ranks them and truncates to the display size, falling back to a single
// hard-coded tool when retrieval yields nothing.
func (e *Engine) buildStep(ctx context.Context, goal, task string, caps []string, ensureUniversal bool) PlanStep {
	var candidates []ToolRecord
	for _, c := range caps {
		candidates = append(candidates, e.index.CapabilityCandidates(c, perCapLimit)...)
	}
	if len(candidates) == 0 {
		sem, err := e.index.SemanticCandidates(ctx, task, semanticTopK)
		if err != nil {
			e.logger.Printf("semantic retrieval failed for step %q: %v", task, err)
		}
		for _, c := range sem {
			candidates = append(candidates, c.Tool)
		}
	}

	capability := ""
	if len(caps) > 0 {
		capability = strings.ToLower(strings.TrimSpace(caps[0]))
	}
	tools := e.reRank(ctx, candidates, goal, capability, task, rerankTopN, ensureUniversal)
	if len(tools) > maxToolsPerStep {
		tools = tools[:maxToolsPerStep]
	}
	if len(tools) == 0 {
		tools = []ToolInfo{fallbackTool}
	}
	return PlanStep{Task: task, Capability: capability, Tools: tools}
}

// assemble finishes a plan with its grouped projection.
func (e *Engine) assemble(goal string, steps []PlanStep) Plan {
	groups := make([]PlanGroup, 0, len(steps))
	for _, step := range steps {
		seen := make(map[string]bool, len(step.Tools))
		var tools []ToolInfo
		for _, t := range step.Tools {
			if t.Name == "" || seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			tools = append(tools, t)
		}
		groups = append(groups, PlanGroup{Title: step.Task, Tools: tools})
	}
	return Plan{Goal: goal, Steps: steps, Groups: groups}
}
