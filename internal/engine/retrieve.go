package engine

import (
	"context"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

const (
	// fuzzy tag matches below this partial-ratio score are discarded
	fuzzyTagThreshold = 75

	perCapLimit  = 16
	semanticTopK = 16
)

// CapabilityCandidates resolves a capability tag into candidate tools via the
// tag index, falling back to a fuzzy scan over every tool's tags when the
// exact bucket is empty.
func (ix *CatalogIndex) CapabilityCandidates(capability string, perCap int) []ToolRecord {
	key := strings.ToLower(strings.TrimSpace(capability))
	if bucket := ix.TagBucket(key); len(bucket) > 0 {
		if len(bucket) > perCap {
			return bucket[:perCap]
		}
		return bucket
	}

	type match struct {
		tool  ToolRecord
		score int
	}
	var matches []match
	for _, t := range ix.Snapshot() {
		best := 0
		for _, tag := range t.Tags {
			if r := fuzzy.PartialRatio(key, strings.ToLower(tag)); r > best {
				best = r
			}
		}
		if best >= fuzzyTagThreshold {
			matches = append(matches, match{tool: t, score: best})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	out := make([]ToolRecord, 0, perCap)
	for _, m := range matches {
		out = append(out, m.tool)
		if len(out) >= perCap {
			break
		}
	}
	return out
}

// SemanticCandidates embeds the query and returns the topK nearest catalog
// entries by cosine similarity (dot product of unit vectors). An empty
// semantic index yields no candidates.
func (ix *CatalogIndex) SemanticCandidates(ctx context.Context, query string, topK int) ([]Candidate, error) {
	ix.semMu.RLock()
	defer ix.semMu.RUnlock()
	if len(ix.semTexts) == 0 || ix.embedder == nil {
		return nil, nil
	}

	vecs, err := ix.embedder.CreateEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, nil
	}
	q := unitNorm(vecs[0])

	out := make([]Candidate, len(ix.semMatrix))
	for i, row := range ix.semMatrix {
		out[i] = Candidate{Tool: ix.semTools[i], Score: dot(row, q)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
