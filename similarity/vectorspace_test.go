package similarity

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func fitTestSpace() *VectorSpace {
	return Fit(map[string]string{
		"The Hobbit":      "The Hobbit J.R.R. Tolkien Fantasy",
		"The Silmarillion": "The Silmarillion J.R.R. Tolkien Fantasy",
		"Dune":            "Dune Frank Herbert Science Fiction",
		"Neuromancer":     "Neuromancer William Gibson Science Fiction",
	})
}

func TestSelfSimilarity(t *testing.T) {
	vs := fitTestSpace()

	scores := vs.Similarity("Dune", []string{"Dune"})
	if got := scores["Dune"]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("similarity(t, {t}) = %f, want 1.0", got)
	}
}

func TestAbsentTitleScoresZero(t *testing.T) {
	vs := fitTestSpace()

	scores := vs.Similarity("Dune", []string{"Unknown Book"})
	if got := scores["Unknown Book"]; got != 0.0 {
		t.Errorf("absent candidate should score 0.0, got %f", got)
	}

	scores = vs.Similarity("Unknown Book", []string{"Dune"})
	if got := scores["Dune"]; got != 0.0 {
		t.Errorf("absent target should score all candidates 0.0, got %f", got)
	}
}

func TestScoresInRange(t *testing.T) {
	vs := fitTestSpace()

	candidates := []string{"The Hobbit", "The Silmarillion", "Dune", "Neuromancer"}
	for _, target := range candidates {
		for title, score := range vs.Similarity(target, candidates) {
			if score < 0.0 || score > 1.0 {
				t.Errorf("similarity(%q, %q) = %f out of [0,1]", target, title, score)
			}
		}
	}
}

func TestSharedTermsScoreHigher(t *testing.T) {
	vs := fitTestSpace()

	scores := vs.Similarity("The Hobbit", []string{"The Silmarillion", "Neuromancer"})
	if scores["The Silmarillion"] <= scores["Neuromancer"] {
		t.Errorf("same-author candidate should outrank unrelated one: %v", scores)
	}
}

func TestRankAgainstTakesMax(t *testing.T) {
	vs := fitTestSpace()

	owned := []string{"The Hobbit", "Dune"}
	candidates := []string{"The Silmarillion"}

	agg := vs.RankAgainst(owned, candidates)
	perHobbit := vs.Similarity("The Hobbit", candidates)["The Silmarillion"]
	perDune := vs.Similarity("Dune", candidates)["The Silmarillion"]

	want := math.Max(perHobbit, perDune)
	if got := agg["The Silmarillion"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("RankAgainst = %f, want max %f", got, want)
	}
}

func TestRankAgainstEmptyOwned(t *testing.T) {
	vs := fitTestSpace()

	agg := vs.RankAgainst(nil, []string{"Dune"})
	if got := agg["Dune"]; got != 0.0 {
		t.Errorf("no owned titles should score 0.0, got %f", got)
	}
}

func TestLoadVectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.json")
	content := `{
		"titles": ["A", "B"],
		"vectors": [
			{"alpha": 1.0, "beta": 1.0},
			{"alpha": 1.0}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	vs, err := LoadVectors(path)
	if err != nil {
		t.Fatalf("Failed to load vectors: %v", err)
	}
	if vs.Size() != 2 {
		t.Fatalf("Expected 2 titles, got %d", vs.Size())
	}

	scores := vs.Similarity("A", []string{"B"})
	want := 1.0 / math.Sqrt(2)
	if got := scores["B"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("similarity(A, B) = %f, want %f", got, want)
	}
}

func TestLoadVectorsMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.json")
	if err := os.WriteFile(path, []byte(`{"titles": ["A"], "vectors": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadVectors(path); err == nil {
		t.Error("Expected error for title/vector count mismatch")
	}
}
