// Package exchange orchestrates the book-exchange workflows: ranked
// candidate listings, ontology-filtered search, and the request
// lifecycle with its two-sided book swap.
package exchange

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbid/bookbid/catalog"
	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
	"github.com/bookbid/bookbid/ontology"
	"github.com/bookbid/bookbid/similarity"
	"github.com/bookbid/bookbid/store"
)

type Engine struct {
	store   *store.Store
	catalog *catalog.Catalog
	vectors *similarity.VectorSpace
	graph   *ontology.Graph

	// placeholderCover is used when the catalog has no image for a
	// candidate title.
	placeholderCover string
}

func NewEngine(s *store.Store, c *catalog.Catalog, vs *similarity.VectorSpace, g *ontology.Graph, placeholderCover string) *Engine {
	if g == nil {
		g = ontology.Empty()
	}
	return &Engine{
		store:            s,
		catalog:          c,
		vectors:          vs,
		graph:            g,
		placeholderCover: placeholderCover,
	}
}

// MyBooks returns the caller's normalized titles plus enriched cards.
func (e *Engine) MyBooks(email string) ([]string, []model.BookCard, error) {
	user, err := e.store.GetUser(&model.FindUser{Email: &email})
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return []string{}, []model.BookCard{}, nil
	}

	cards := make([]model.BookCard, 0, len(user.Books))
	for _, t := range user.Books {
		cards = append(cards, e.catalog.Card(t))
	}
	return user.Books, cards, nil
}

// AddBook appends a title to the caller's list. Adding an owned title
// is a no-op: owned titles are a set.
func (e *Engine) AddBook(email, title string) ([]string, error) {
	user, err := e.store.GetUser(&model.FindUser{Email: &email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrNotFound
	}

	for _, t := range user.Books {
		if t == title {
			return user.Books, nil
		}
	}

	updated, err := e.store.UpdateUserBooks(email, append(user.Books, title))
	if err != nil {
		return nil, err
	}
	return updated.Books, nil
}

// RemoveBook drops a title from the caller's list. Removing a title not
// owned is a no-op, not an error.
func (e *Engine) RemoveBook(email, title string) ([]string, error) {
	user, err := e.store.GetUser(&model.FindUser{Email: &email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrNotFound
	}

	titles := make([]string, 0, len(user.Books))
	removed := false
	for _, t := range user.Books {
		if !removed && t == title {
			removed = true
			continue
		}
		titles = append(titles, t)
	}
	if !removed {
		return user.Books, nil
	}

	updated, err := e.store.UpdateUserBooks(email, titles)
	if err != nil {
		return nil, err
	}
	return updated.Books, nil
}

// candidates collects every other user's books, annotated with owner
// identity and a resolved cover image.
func (e *Engine) candidates(callerEmail string) ([]model.CandidateBook, error) {
	users, err := e.store.ListUsers(&model.FindUser{})
	if err != nil {
		return nil, err
	}

	items := make([]model.CandidateBook, 0)
	for _, u := range users {
		if u.Email == callerEmail {
			continue
		}
		for _, t := range u.Books {
			items = append(items, model.CandidateBook{
				UserName:  u.Name,
				UserEmail: u.Email,
				UserCity:  u.City,
				BookTitle: t,
				ImageURL:  e.catalog.Cover(t, e.placeholderCover),
			})
		}
	}
	return items, nil
}

// Candidates returns the ranked exchange listing for the caller: every
// other user's book scored against the caller's titles and sorted by
// descending similarity. Ties keep their prior relative order.
func (e *Engine) Candidates(callerEmail string) ([]model.CandidateBook, error) {
	items, err := e.candidates(callerEmail)
	if err != nil {
		return nil, err
	}

	me, err := e.store.GetUser(&model.FindUser{Email: &callerEmail})
	if err != nil {
		return nil, err
	}
	var myTitles []string
	if me != nil {
		myTitles = me.Books
	}

	// Score each distinct candidate title once.
	seen := map[string]struct{}{}
	candidateTitles := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.BookTitle]; ok {
			continue
		}
		seen[it.BookTitle] = struct{}{}
		candidateTitles = append(candidateTitles, it.BookTitle)
	}

	scores := e.vectors.RankAgainst(myTitles, candidateTitles)
	for i := range items {
		items[i].Similarity = scores[items[i].BookTitle]
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Similarity > items[j].Similarity
	})
	return items, nil
}

// Search filters the candidate listing by ontology relatedness to the
// query title. An empty query returns no results, not the full catalog.
// Graph failures degrade to an empty listing.
func (e *Engine) Search(callerEmail, query string) ([]model.CandidateBook, error) {
	if query == "" {
		return []model.CandidateBook{}, nil
	}

	items, err := e.candidates(callerEmail)
	if err != nil {
		return nil, err
	}

	keep := e.graph.Related(query)
	if len(keep) == 0 {
		log.Debug("Ontology search matched nothing", zap.String("query", query))
		return []model.CandidateBook{}, nil
	}

	filtered := make([]model.CandidateBook, 0, len(items))
	for _, it := range items {
		if _, ok := keep[it.BookTitle]; ok {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

// CreateRequest opens a pending exchange request from the caller.
func (e *Engine) CreateRequest(fromEmail string, create *model.ExchangeRequestCreate) (*model.ExchangeRequest, error) {
	if create.RequestedBook == "" || create.OwnerEmail == "" || create.OfferedBook == "" {
		return nil, errors.Wrap(model.ErrBadRequest, "missing fields")
	}

	return e.store.CreateRequest(&model.ExchangeRequest{
		FromUser:      fromEmail,
		ToUser:        create.OwnerEmail,
		RequestedBook: create.RequestedBook,
		OfferedBook:   create.OfferedBook,
		Status:        model.StatusPending,
	})
}

// ListRequests returns the caller's incoming and outgoing requests,
// titles normalized and enriched with catalog metadata.
func (e *Engine) ListRequests(email string) (incoming, outgoing []model.RequestRow, err error) {
	in, err := e.store.ListRequests(&model.FindRequest{ToUser: &email})
	if err != nil {
		return nil, nil, err
	}
	out, err := e.store.ListRequests(&model.FindRequest{FromUser: &email})
	if err != nil {
		return nil, nil, err
	}

	return e.enrich(in), e.enrich(out), nil
}

func (e *Engine) enrich(requests []*model.ExchangeRequest) []model.RequestRow {
	rows := make([]model.RequestRow, 0, len(requests))
	for _, req := range requests {
		r := *req
		// Stored request titles go through the same coercion as the
		// owned-title lists before they are surfaced or compared.
		r.RequestedBook = model.CoerceTitle(r.RequestedBook)
		r.OfferedBook = model.CoerceTitle(r.OfferedBook)
		rows = append(rows, model.RequestRow{
			ExchangeRequest:      r,
			RequestedBookDetails: e.catalog.Meta(r.RequestedBook),
			OfferedBookDetails:   e.catalog.Meta(r.OfferedBook),
		})
	}
	return rows
}

// Accept transitions a request to accepted and swaps the two books.
// Only the request's to_user may accept. The swap and the status
// transition commit together.
func (e *Engine) Accept(id, callerEmail string) error {
	return e.store.AcceptSwap(id, callerEmail)
}
