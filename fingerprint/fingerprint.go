package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Vector is a sparse term-frequency vector over normalized tokens.
// Used only for similarity comparison, never for dedup.
type Vector map[string]float64

// Fingerprint normalizes raw article text and returns the content hash
// used for exact-duplicate detection together with the feature vector
// used for similarity. Pure function of the input text.
func Fingerprint(rawText string) (string, Vector) {
	normalized := Normalize(rawText)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:]), Features(normalized)
}

// Normalize lowercases, strips markup remnants and collapses whitespace
// so trivial formatting differences do not defeat dedup.
func Normalize(rawText string) string {
	text := stripMarkup(rawText)
	text = strings.ToLower(text)
	return strings.Join(strings.Fields(text), " ")
}

// stripMarkup removes HTML tags and entities left over from extraction.
// Plain text passes through untouched.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Features builds the term-frequency vector of the normalized text,
// L2-normalized so cosine reduces to a dot product.
func Features(normalized string) Vector {
	tokens := Tokenize(normalized)
	if len(tokens) == 0 {
		return Vector{}
	}

	v := make(Vector, len(tokens))
	for _, tok := range tokens {
		v[tok]++
	}

	var norm float64
	for _, w := range v {
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for t, w := range v {
		v[t] = w / norm
	}
	return v
}

// Tokenize splits normalized text into salient terms: unicode word
// segments of length >= 3 that are not stopwords. Works for both
// Latin-script and Bengali-script text.
func Tokenize(normalized string) []string {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		if stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Dot returns the dot product of two vectors. With L2-normalized inputs
// this is the cosine similarity.
func (v Vector) Dot(other Vector) float64 {
	// iterate the smaller vector
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot
}

// Terms returns the distinct terms of the vector.
func (v Vector) Terms() map[string]bool {
	set := make(map[string]bool, len(v))
	for t := range v {
		set[t] = true
	}
	return set
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "was": true, "were": true, "with": true, "that": true,
	"this": true, "from": true, "have": true, "has": true, "had": true,
	"his": true, "her": true, "its": true, "they": true, "their": true,
	"will": true, "would": true, "been": true, "said": true, "say": true,
	"says": true, "can": true, "could": true, "which": true, "who": true,
	"into": true, "also": true, "more": true, "than": true, "when": true,
	"where": true, "while": true, "after": true, "before": true,
	"about": true, "over": true, "under": true, "between": true,
	"during": true, "all": true, "any": true, "some": true, "such": true,
	"there": true, "these": true, "those": true, "other": true,
	"our": true, "out": true, "you": true, "your": true,
}
