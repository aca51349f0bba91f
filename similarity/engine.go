package similarity

import (
	"sync"

	"bias-lens/fingerprint"
	"bias-lens/models"
)

// Engine computes pairwise textual similarity between articles.
// The combination of lexical cosine and term-set overlap is collapsed
// into a single scalar in [0,1] so the clusterer stays independent of
// the method mix. Safe for concurrent use.
type Engine struct {
	// CosineWeight and OverlapWeight control the method mix.
	// They are normalized at scoring time; both zero means cosine only.
	CosineWeight  float64
	OverlapWeight float64

	mu    sync.Mutex
	cache map[string]fingerprint.Vector
}

// NewEngine returns an engine with the default method mix.
func NewEngine() *Engine {
	return &Engine{
		CosineWeight:  0.7,
		OverlapWeight: 0.3,
		cache:         map[string]fingerprint.Vector{},
	}
}

// Score returns the similarity of two articles in [0,1].
// Symmetric and deterministic: Score(a,b) == Score(b,a) for all inputs.
func (e *Engine) Score(a, b *models.Article) float64 {
	va := e.vectorFor(a)
	vb := e.vectorFor(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	cosine := va.Dot(vb)
	overlap := jaccard(va, vb)

	cw, ow := e.CosineWeight, e.OverlapWeight
	if cw+ow <= 0 {
		return clamp01(cosine)
	}
	return clamp01((cw*cosine + ow*overlap) / (cw + ow))
}

// vectorFor returns the article's feature vector, computing and caching
// it by content hash. Feature vectors are not persisted: Fingerprint is
// deterministic, so recomputing from the body is always equivalent.
func (e *Engine) vectorFor(a *models.Article) fingerprint.Vector {
	e.mu.Lock()
	if v, ok := e.cache[a.ContentHash]; ok {
		e.mu.Unlock()
		return v
	}
	e.mu.Unlock()

	v := fingerprint.Features(fingerprint.Normalize(a.Title + " " + a.Body))

	e.mu.Lock()
	if e.cache == nil {
		e.cache = map[string]fingerprint.Vector{}
	}
	e.cache[a.ContentHash] = v
	e.mu.Unlock()
	return v
}

func jaccard(a, b fingerprint.Vector) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
