// Package similarity scores candidate books against a target book using
// cosine similarity over a TF-IDF vector space. The space is built once
// at startup and never retrained, so it is shared without locking.
// Scoring is best-effort: titles absent from the corpus score 0.0, they
// never error.
package similarity

import (
	"encoding/json"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbid/bookbid/log"
)

type VectorSpace struct {
	// index maps a corpus title to its row position.
	index map[string]int
	// rows holds one l2-normalized term->weight vector per title.
	rows []map[string]float64
}

// vectorsFile is the on-disk precomputed space layout.
type vectorsFile struct {
	Titles  []string             `json:"titles"`
	Vectors []map[string]float64 `json:"vectors"`
}

// LoadVectors reads a precomputed vector space from a JSON file.
func LoadVectors(path string) (*VectorSpace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "similarity: unable to read %s", path)
	}

	var file vectorsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "similarity: malformed vectors file")
	}
	if len(file.Titles) != len(file.Vectors) {
		return nil, errors.Errorf("similarity: %d titles but %d vectors", len(file.Titles), len(file.Vectors))
	}

	vs := &VectorSpace{index: make(map[string]int, len(file.Titles))}
	for i, title := range file.Titles {
		if _, dup := vs.index[title]; dup {
			continue
		}
		vs.index[title] = len(vs.rows)
		vs.rows = append(vs.rows, normalize(file.Vectors[i]))
	}

	log.Info("Vector space loaded", zap.Int("titles", len(vs.rows)))
	return vs, nil
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Fit builds a TF-IDF space from raw documents keyed by title. Used when
// no precomputed vectors file is configured. Deterministic for a given
// corpus and immutable afterwards.
func Fit(docs map[string]string) *VectorSpace {
	titles := make([]string, 0, len(docs))
	for title := range docs {
		titles = append(titles, title)
	}
	// Map iteration order is random; row order does not matter but the
	// title index must be stable, so build it from the collected slice.
	vs := &VectorSpace{index: make(map[string]int, len(titles))}

	// Document frequency per term.
	df := make(map[string]int)
	tokenized := make([][]string, 0, len(titles))
	for _, title := range titles {
		tokens := tokenize(docs[title])
		tokenized = append(tokenized, tokens)
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(titles))
	for i, title := range titles {
		tf := make(map[string]float64)
		for _, tok := range tokenized[i] {
			tf[tok]++
		}
		row := make(map[string]float64, len(tf))
		for tok, count := range tf {
			// Smoothed idf, sklearn-style: ln((1+n)/(1+df)) + 1.
			idf := math.Log((1+n)/(1+float64(df[tok]))) + 1
			row[tok] = count * idf
		}

		vs.index[title] = len(vs.rows)
		vs.rows = append(vs.rows, normalize(row))
	}

	log.Info("Vector space fitted", zap.Int("titles", len(vs.rows)), zap.Int("terms", len(df)))
	return vs
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func normalize(v map[string]float64) map[string]float64 {
	var norm float64
	for _, w := range v {
		norm += w * w
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make(map[string]float64, len(v))
	for t, w := range v {
		out[t] = w / norm
	}
	return out
}

// Similarity computes the cosine similarity of the target title with
// each candidate. A title missing from the corpus scores 0.0.
func (vs *VectorSpace) Similarity(target string, candidates []string) map[string]float64 {
	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		scores[c] = 0.0
	}

	ti, ok := vs.index[target]
	if !ok {
		return scores
	}
	targetVec := vs.rows[ti]

	for _, c := range candidates {
		ci, ok := vs.index[c]
		if !ok {
			continue
		}
		scores[c] = cosine(targetVec, vs.rows[ci])
	}
	return scores
}

// RankAgainst scores candidates against a whole owned set: each
// candidate takes its maximum similarity across the owned titles.
// Closest match to anything owned wins, not an average.
func (vs *VectorSpace) RankAgainst(owned, candidates []string) map[string]float64 {
	agg := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		agg[c] = 0.0
	}
	for _, t := range owned {
		scores := vs.Similarity(t, candidates)
		for c, s := range scores {
			if s > agg[c] {
				agg[c] = s
			}
		}
	}
	return agg
}

func cosine(a, b map[string]float64) float64 {
	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot, normA, normB float64
	for t, w := range a {
		if bw, ok := b[t]; ok {
			dot += w * bw
		}
	}
	for _, w := range a {
		normA += w * w
	}
	for _, w := range b {
		normB += w * w
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp float drift into [0,1].
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// Size returns the number of titles in the corpus.
func (vs *VectorSpace) Size() int {
	return len(vs.rows)
}
