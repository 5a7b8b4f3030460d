package retrieval

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// DefaultTopK matches the corpus similarity search depth used throughout the
// pipeline.
const DefaultTopK = 3

// Metadata identifies a corpus document.
type Metadata struct {
	ID string `json:"id"`
}

// Document is one retrievable corpus entry.
type Document struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Searcher returns the top-k most similar documents for a query string. The
// embedding-backed implementation lives outside this module; Index below is
// the process-local fallback.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Document, error)
}

var tokenPattern = regexp.MustCompile(`\w+`)

// Index is an in-memory lexical searcher ranking documents by cosine
// similarity over term frequencies. Safe for concurrent use; the corpus is
// expected to be loaded once and read thereafter.
type Index struct {
	mu      sync.RWMutex
	docs    []Document
	vectors []map[string]float64
}

func NewIndex() *Index {
	return &Index{}
}

// Add indexes the supplied documents.
func (ix *Index) Add(docs ...Document) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, doc := range docs {
		ix.docs = append(ix.docs, doc)
		ix.vectors = append(ix.vectors, termFrequencies(doc.Content))
	}
}

// Len reports the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Search returns up to k documents ordered by descending similarity. k <= 0
// uses DefaultTopK. Ties keep insertion order.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = DefaultTopK
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	queryVec := termFrequencies(query)
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(ix.docs))
	for i, vec := range ix.vectors {
		ranked = append(ranked, scored{idx: i, score: cosine(queryVec, vec)})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]Document, 0, k)
	for _, entry := range ranked[:k] {
		out = append(out, ix.docs[entry.idx])
	}
	return out, nil
}

func termFrequencies(text string) map[string]float64 {
	freq := make(map[string]float64)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		freq[token]++
	}
	return freq
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for term, weight := range a {
		normA += weight * weight
		if other, ok := b[term]; ok {
			dot += weight * other
		}
	}
	for _, weight := range b {
		normB += weight * weight
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
