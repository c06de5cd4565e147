package catalog

import (
	"strings"
	"testing"
)

const testCSV = `title,author,genre,img
The Hobbit,J.R.R. Tolkien,Fantasy,hobbit.jpg
Dune,Frank Herbert,Science Fiction,dune.jpg
Neuromancer,William Gibson,Science Fiction,
`

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Read(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("Failed to read catalog: %v", err)
	}
	return c
}

func TestLookup(t *testing.T) {
	c := loadTestCatalog(t)

	book, ok := c.Lookup("Dune")
	if !ok {
		t.Fatal("Expected Dune in catalog")
	}
	if book.Author != "Frank Herbert" || book.Genre != "Science Fiction" {
		t.Errorf("Unexpected metadata: %+v", book)
	}

	// Title match is exact and case-sensitive.
	if _, ok := c.Lookup("dune"); ok {
		t.Error("Lookup should be case-sensitive")
	}
	if _, ok := c.Lookup("Dune "); ok {
		t.Error("Lookup should not trim whitespace")
	}
}

func TestAll(t *testing.T) {
	c := loadTestCatalog(t)
	if got := len(c.All()); got != 3 {
		t.Errorf("Expected 3 books, got %d", got)
	}
}

func TestCardDegradesToEmptyMetadata(t *testing.T) {
	c := loadTestCatalog(t)

	card := c.Card("Unknown Book")
	if card.Title != "Unknown Book" {
		t.Errorf("Card should keep the requested title, got %q", card.Title)
	}
	if card.Author != "" || card.CoverURL != "" {
		t.Errorf("Unknown title should have empty metadata, got %+v", card)
	}
}

func TestCoverPlaceholder(t *testing.T) {
	c := loadTestCatalog(t)

	if got := c.Cover("The Hobbit", "placeholder.jpg"); got != "hobbit.jpg" {
		t.Errorf("Cover = %q, want hobbit.jpg", got)
	}
	if got := c.Cover("Unknown Book", "placeholder.jpg"); got != "placeholder.jpg" {
		t.Errorf("Cover for unknown title = %q, want placeholder", got)
	}
	// A catalog row without an image also falls back.
	if got := c.Cover("Neuromancer", "placeholder.jpg"); got != "placeholder.jpg" {
		t.Errorf("Cover for imageless title = %q, want placeholder", got)
	}
}

func TestMissingTitleColumn(t *testing.T) {
	if _, err := Read(strings.NewReader("author,genre\na,b\n")); err == nil {
		t.Error("Expected error for catalog without title column")
	}
}
