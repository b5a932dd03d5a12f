package engine

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
)

// CatalogIndex holds the two retrieval indices over the current catalog
// snapshot: an exact tag index and a semantic embedding index. Both are
// rebuilt wholesale; readers see either the previous or the new mapping,
// never a partially populated one.
type CatalogIndex struct {
	catalog     Catalog
	newEmbedder func() (Embedder, error)
	logger      *log.Logger

	tagMu    sync.RWMutex
	byTag    map[string][]ToolRecord
	snapshot []ToolRecord

	semMu     sync.RWMutex
	embedder  Embedder
	semTexts  []string
	semTools  []ToolRecord
	semMatrix [][]float32
}

// NewCatalogIndex wires an index over the given catalog. newEmbedder is
// invoked lazily, at most once, on the first semantic build; a nil factory
// disables semantic retrieval (tag retrieval still works).
func NewCatalogIndex(catalog Catalog, newEmbedder func() (Embedder, error), logger *log.Logger) *CatalogIndex {
	if logger == nil {
		logger = log.New(log.Writer(), "[INDEX] ", log.LstdFlags)
	}
	return &CatalogIndex{
		catalog:     catalog,
		newEmbedder: newEmbedder,
		logger:      logger,
		byTag:       map[string][]ToolRecord{},
	}
}

// BuildTagIndex clears and repopulates the tag index from a fresh catalog
// snapshot. Tags are lower-cased and trimmed; empty tags are skipped.
func (ix *CatalogIndex) BuildTagIndex(ctx context.Context) error {
	tools, err := ix.catalog.ListAllTools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	fresh := make(map[string][]ToolRecord)
	for _, t := range tools {
		for _, tag := range t.Tags {
			k := strings.ToLower(strings.TrimSpace(tag))
			if k == "" {
				continue
			}
			fresh[k] = append(fresh[k], t)
		}
	}
	ix.tagMu.Lock()
	ix.byTag = fresh
	ix.snapshot = tools
	ix.tagMu.Unlock()
	ix.logger.Printf("tag index ready: %d keys over %d tools", len(fresh), len(tools))
	return nil
}

// BuildSemanticIndex embeds "<name>. Tags: <tags>" for every tool and retains
// the unit-normalized matrix for brute-force cosine search. An empty catalog
// clears the index so no stale tools linger.
func (ix *CatalogIndex) BuildSemanticIndex(ctx context.Context) error {
	ix.semMu.Lock()
	defer ix.semMu.Unlock()

	if ix.embedder == nil {
		if ix.newEmbedder == nil {
			return fmt.Errorf("no embedder configured")
		}
		emb, err := ix.newEmbedder()
		if err != nil {
			return fmt.Errorf("load embedder: %w", err)
		}
		ix.embedder = emb
	}

	tools, err := ix.catalog.ListAllTools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	texts := make([]string, 0, len(tools))
	for _, t := range tools {
		texts = append(texts, fmt.Sprintf("%s. Tags: %s", t.Name, strings.Join(t.Tags, ", ")))
	}
	if len(texts) == 0 {
		ix.semTexts, ix.semTools, ix.semMatrix = nil, nil, nil
		return nil
	}

	vecs, err := ix.embedder.CreateEmbedding(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed catalog: %w", err)
	}
	if len(vecs) != len(texts) {
		return fmt.Errorf("embed catalog: got %d vectors for %d texts", len(vecs), len(texts))
	}
	matrix := make([][]float32, len(vecs))
	for i, v := range vecs {
		matrix[i] = unitNorm(v)
	}
	ix.semTexts = texts
	ix.semTools = tools
	ix.semMatrix = matrix
	ix.logger.Printf("semantic index ready: %d entries", len(texts))
	return nil
}

// EnsureIndices builds either index if it is empty. This is a convenience
// guard before retrieval, not a consistency mechanism; concurrent rebuilds
// are serialized by the per-index locks.
func (ix *CatalogIndex) EnsureIndices(ctx context.Context) {
	if ix.TagIndexSize() == 0 {
		if err := ix.BuildTagIndex(ctx); err != nil {
			ix.logger.Printf("tag index build failed: %v", err)
		}
	}
	if ix.SemanticSize() == 0 {
		if err := ix.BuildSemanticIndex(ctx); err != nil {
			ix.logger.Printf("semantic index build failed: %v", err)
		}
	}
}

// Rebuild forces both indices to be rebuilt from the current catalog.
func (ix *CatalogIndex) Rebuild(ctx context.Context) error {
	if err := ix.BuildTagIndex(ctx); err != nil {
		return err
	}
	return ix.BuildSemanticIndex(ctx)
}

// TagBucket returns the index bucket for an already-normalized tag key.
func (ix *CatalogIndex) TagBucket(key string) []ToolRecord {
	ix.tagMu.RLock()
	defer ix.tagMu.RUnlock()
	return ix.byTag[key]
}

// Snapshot returns the catalog snapshot captured by the last tag-index build.
func (ix *CatalogIndex) Snapshot() []ToolRecord {
	ix.tagMu.RLock()
	defer ix.tagMu.RUnlock()
	return ix.snapshot
}

func (ix *CatalogIndex) TagIndexSize() int {
	ix.tagMu.RLock()
	defer ix.tagMu.RUnlock()
	return len(ix.byTag)
}

func (ix *CatalogIndex) SemanticSize() int {
	ix.semMu.RLock()
	defer ix.semMu.RUnlock()
	return len(ix.semTexts)
}

// unitNorm scales a vector to unit length. The epsilon keeps zero vectors
// from dividing by zero.
func unitNorm(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	n := math.Sqrt(sum) + 1e-12
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var s float64
	for i := 0; i < n; i++ {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
