package engine

import (
	"context"
)

// ToolRecord is a read-only snapshot of one catalog entry. The catalog store
// owns the records; the engine never mutates them.
type ToolRecord struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags"`
	Links       map[string]string `json:"links,omitempty"`
	IconURL     string            `json:"icon_url,omitempty"`
	Rating      float64           `json:"rating,omitempty"`
}

// Website returns the tool's website link, if any.
func (t ToolRecord) Website() string {
	if t.Links == nil {
		return ""
	}
	return t.Links["website"]
}

// Catalog is the narrow read interface the engine uses to obtain catalog
// snapshots. Implemented by the Postgres store.
type Catalog interface {
	ListAllTools(ctx context.Context) ([]ToolRecord, error)
	FindToolByName(ctx context.Context, name string) (ToolRecord, bool, error)
}

// Embedder turns a batch of texts into embedding vectors.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Ratings exposes the live popularity cache to the scorer. Rating01 reads the
// cached snapshot only and never fails; Ensure triggers a refresh-if-stale
// check (a no-op inside the TTL/backoff window).
type Ratings interface {
	Ensure(ctx context.Context)
	Rating01(name string) float64
}

// StepProvider produces 3-5 macro steps for a goal. Treated as unreliable:
// any error funnels into the deterministic fallback.
type StepProvider interface {
	GenerateSteps(ctx context.Context, goal, promptContext, model string) ([]string, error)
}

// Candidate pairs a tool with its retrieval or ranking score.
type Candidate struct {
	Tool  ToolRecord
	Score float64
}

// ToolInfo is the display shape of a recommended tool.
type ToolInfo struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// PlanStep is one step of a generated plan with up to three recommended tools.
type PlanStep struct {
	Task       string     `json:"task"`
	Capability string     `json:"capability,omitempty"`
	Tools      []ToolInfo `json:"tools"`
}

// PlanGroup is the grouped projection of a step for display, with tools
// deduplicated by name.
type PlanGroup struct {
	Title string     `json:"title"`
	Tools []ToolInfo `json:"tools"`
}

// Plan is the terminal output of every planning branch.
type Plan struct {
	Goal   string      `json:"goal"`
	Steps  []PlanStep  `json:"plan"`
	Groups []PlanGroup `json:"groups,omitempty"`
}

// Strategy labels for the three plan-construction branches.
const (
	StrategyLearning   = "learning"
	StrategyTemplate   = "template"
	StrategyGenerative = "generative"
)
