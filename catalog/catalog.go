// Package catalog holds the fixed reference set of known books. It is
// loaded once at process start and read-only afterwards, so it is safe
// to share across requests without locking.
package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
)

type Catalog struct {
	books   []model.Book
	byTitle map[string]model.Book
}

// Load reads the tabular catalog. The expected header carries at least
// title, author, genre and img columns; extra columns are ignored.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: unable to open %s", path)
	}
	defer f.Close()

	return Read(f)
}

func Read(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "catalog: unable to read header")
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"title"} {
		if _, ok := col[required]; !ok {
			return nil, errors.Errorf("catalog: missing %q column", required)
		}
	}

	c := &Catalog{byTitle: make(map[string]model.Book)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "catalog: malformed row")
		}

		book := model.Book{
			Title:    field(record, col, "title"),
			Author:   field(record, col, "author"),
			Genre:    field(record, col, "genre"),
			CoverURL: field(record, col, "img"),
		}
		if book.Title == "" {
			continue
		}
		c.books = append(c.books, book)
		// Title match is exact and case-sensitive. A stored user title
		// that differs in case or whitespace misses here and surfaces
		// as empty metadata, never as an error.
		if _, dup := c.byTitle[book.Title]; !dup {
			c.byTitle[book.Title] = book
		}
	}

	log.Info("Catalog loaded", zap.Int("books", len(c.books)))
	return c, nil
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// Lookup returns the catalog row for an exact title match.
func (c *Catalog) Lookup(title string) (model.Book, bool) {
	book, ok := c.byTitle[title]
	return book, ok
}

// All returns every catalog row in file order.
func (c *Catalog) All() []model.Book {
	return c.books
}

// Card builds an owned-title card, with empty metadata on a miss.
func (c *Catalog) Card(title string) model.BookCard {
	book := c.byTitle[title]
	return model.BookCard{
		Title:    title,
		CoverURL: book.CoverURL,
		Author:   book.Author,
		Genre:    book.Genre,
	}
}

// Meta builds the request-row detail block for a title.
func (c *Catalog) Meta(title string) model.BookMeta {
	book := c.byTitle[title]
	return model.BookMeta{
		Title:  title,
		Author: book.Author,
		Image:  book.CoverURL,
	}
}

// Cover returns the catalog image for a title, or the placeholder.
func (c *Catalog) Cover(title, placeholder string) string {
	if book, ok := c.byTitle[title]; ok && book.CoverURL != "" {
		return book.CoverURL
	}
	return placeholder
}
