package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	logx "github.com/autodriver-poc/server/pkg/logger"
)

// DefaultTopK is the number of snippets returned per query.
const DefaultTopK = 2

type indexedDoc struct {
	doc    *schema.Document
	vector []float64
}

// Store is an in-memory vector index with brute-force cosine search.
// It is read-only after construction.
type Store struct {
	embedder embedding.Embedder
	docs     []indexedDoc
	topK     int
}

var _ retriever.Retriever = (*Store)(nil)

// NewStore embeds every entry up front.
func NewStore(ctx context.Context, embedder embedding.Embedder, entries []Entry, topK int) (*Store, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Content
	}
	vectors, err := embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(entries) {
		return nil, fmt.Errorf("embed corpus: got %d vectors for %d entries", len(vectors), len(entries))
	}

	s := &Store{embedder: embedder, topK: topK, docs: make([]indexedDoc, len(entries))}
	for i, e := range entries {
		s.docs[i] = indexedDoc{
			doc: &schema.Document{
				ID:       e.ID,
				Content:  e.Content,
				MetaData: map[string]any{"topic": e.Topic},
			},
			vector: vectors[i],
		}
	}
	logx.Info().Int("entries", len(entries)).Int("top_k", topK).Msg("Knowledge store initialized")
	return s, nil
}

// NewDefaultStore builds a store over the corpus at path (built-in when empty).
func NewDefaultStore(ctx context.Context, path string, topK, dims int) (*Store, error) {
	entries, err := LoadCorpus(path)
	if err != nil {
		return nil, err
	}
	return NewStore(ctx, NewHashEmbedder(dims), entries, topK)
}

// Retrieve returns up to top-K documents ordered by descending similarity.
func (s *Store) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	topK := s.topK
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &topK}, opts...)
	if options.TopK != nil && *options.TopK > 0 {
		topK = *options.TopK
	}
	embedder := s.embedder
	if options.Embedding != nil {
		embedder = options.Embedding
	}

	vectors, err := embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}
	q := vectors[0]

	type scored struct {
		doc   *schema.Document
		score float64
	}
	candidates := make([]scored, 0, len(s.docs))
	for _, d := range s.docs {
		if len(d.vector) != len(q) {
			continue
		}
		score := cosineSimilarity(q, d.vector)
		if options.ScoreThreshold != nil && score < *options.ScoreThreshold {
			continue
		}
		candidates = append(candidates, scored{doc: d.doc, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if topK > len(candidates) {
		topK = len(candidates)
	}

	out := make([]*schema.Document, topK)
	for i := 0; i < topK; i++ {
		c := candidates[i]
		doc := &schema.Document{ID: c.doc.ID, Content: c.doc.Content, MetaData: map[string]any{}}
		for k, v := range c.doc.MetaData {
			doc.MetaData[k] = v
		}
		out[i] = doc.WithScore(c.score)
	}
	return out, nil
}

// Context answers a query with the retrieved snippets joined by newlines.
func (s *Store) Context(ctx context.Context, query string) (string, error) {
	docs, err := s.Retrieve(ctx, query)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return strings.Join(parts, "\n"), nil
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
