package knowledge

import (
	"context"
	"hash/fnv"
	"math"
	"unicode"

	"github.com/cloudwego/eino/components/embedding"
)

// DefaultDimensions matches the vector size the corpus was tuned with.
const DefaultDimensions = 384

// HashEmbedder maps text to a fixed-size vector by hashing rune unigrams and
// bigrams into buckets. It needs no model and is deterministic, which suits a
// corpus of a few short CJK sentences.
type HashEmbedder struct {
	Dimensions int
}

var _ embedding.Embedder = (*HashEmbedder)(nil)

func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashEmbedder{Dimensions: dims}
}

func (e *HashEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *HashEmbedder) embed(text string) []float64 {
	vec := make([]float64, e.Dimensions)
	var prev rune
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			prev = 0
			continue
		}
		r = unicode.ToLower(r)
		vec[e.bucket(string(r))]++
		if prev != 0 {
			vec[e.bucket(string([]rune{prev, r}))] += 2
		}
		prev = r
	}
	normalize(vec)
	return vec
}

func (e *HashEmbedder) bucket(gram string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(gram))
	return int(h.Sum32() % uint32(e.Dimensions))
}

func normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	n := math.Sqrt(sum)
	for i := range v {
		v[i] /= n
	}
}
