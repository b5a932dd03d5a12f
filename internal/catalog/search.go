package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/blevesearch/bleve"

	"github.com/liliqgyurova/toolplanner/internal/engine"
)

// SearchIndex is an in-memory BM25 index over the tool catalog. It backs the
// free-text catalog search endpoint and is rebuilt wholesale whenever the
// catalog changes.
type SearchIndex struct {
	mu    sync.RWMutex
	idx   bleve.Index
	tools map[string]engine.ToolRecord
}

type searchDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

func NewSearchIndex() (*SearchIndex, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	return &SearchIndex{idx: idx, tools: map[string]engine.ToolRecord{}}, nil
}

// Rebuild replaces the index contents with the given catalog snapshot.
func (s *SearchIndex) Rebuild(tools []engine.ToolRecord) error {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return err
	}
	batch := idx.NewBatch()
	meta := make(map[string]engine.ToolRecord, len(tools))
	for _, t := range tools {
		meta[t.Name] = t
		if err := batch.Index(t.Name, searchDoc{
			Name:        t.Name,
			Description: t.Description,
			Tags:        strings.Join(t.Tags, " "),
		}); err != nil {
			return err
		}
	}
	if err := idx.Batch(batch); err != nil {
		return err
	}

	s.mu.Lock()
	old := s.idx
	s.idx = idx
	s.tools = meta
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Hit is one catalog search result.
type Hit struct {
	Tool  engine.ToolRecord `json:"tool"`
	Score float64           `json:"score"`
}

// Search runs a BM25 query-string search and returns up to k catalog hits.
func (s *SearchIndex) Search(ctx context.Context, q string, k int) ([]Hit, error) {
	if k <= 0 {
		k = 10
	}
	s.mu.RLock()
	idx := s.idx
	meta := s.tools
	s.mu.RUnlock()

	query := bleve.NewQueryStringQuery(q)
	req := bleve.NewSearchRequestOptions(query, k, 0, false)
	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}
	var out []Hit
	for _, hit := range res.Hits {
		tool, ok := meta[hit.ID]
		if !ok {
			continue
		}
		out = append(out, Hit{Tool: tool, Score: hit.Score})
	}
	return out, nil
}

func (s *SearchIndex) Size() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, err := s.idx.DocCount()
	if err != nil {
		return 0
	}
	return n
}
