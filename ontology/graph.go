// Package ontology answers "which books share an author or genre with
// this one" from a small RDF/XML relation graph. Lookups are
// best-effort: a malformed graph or an unknown book yields an empty
// result set, never an error.
package ontology

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbid/bookbid/log"
)

const (
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfsNS = "http://www.w3.org/2000/01/rdf-schema#"

	// BookNS is the entity namespace for book subjects.
	BookNS = "http://example.org/book/"

	hasAuthorPredicate = "http://example.org/hasAuthor"
	hasGenrePredicate  = "http://example.org/hasGenre"
	labelPredicate     = rdfsNS + "label"
)

// Graph is a subject -> predicate -> objects triple index.
type Graph struct {
	triples map[string]map[string][]string
}

// Empty returns a graph with no triples.
func Empty() *Graph {
	return &Graph{triples: map[string]map[string][]string{}}
}

// Load parses an RDF/XML graph file. Callers that want the documented
// degrade-to-empty behavior should fall back to Empty() on error.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ontology: unable to open %s", path)
	}
	defer f.Close()

	return Parse(f)
}

// frame tracks one open XML element while parsing.
type frame struct {
	// subject is set when the element declared rdf:about.
	subject string
	// predicate is set when the element is a property of the nearest
	// enclosing subject and still waiting for text content.
	predicate string
}

// Parse decodes RDF/XML into triples. Subjects come from rdf:about
// attributes; each child element is a predicate whose object is either
// an rdf:resource reference or the element text.
func Parse(r io.Reader) (*Graph, error) {
	g := Empty()
	decoder := xml.NewDecoder(r)

	var stack []frame
	currentSubject := func() string {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].subject != "" {
				return stack[i].subject
			}
		}
		return ""
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "ontology: malformed graph")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if about := attr(t, rdfNS, "about"); about != "" {
				stack = append(stack, frame{subject: about})
				continue
			}
			subject := currentSubject()
			if subject == "" {
				stack = append(stack, frame{})
				continue
			}
			predicate := t.Name.Space + t.Name.Local
			if resource := attr(t, rdfNS, "resource"); resource != "" {
				g.add(subject, predicate, resource)
				stack = append(stack, frame{})
				continue
			}
			stack = append(stack, frame{predicate: predicate})
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if top.predicate == "" {
				continue
			}
			if text := strings.TrimSpace(string(t)); text != "" {
				g.add(currentSubject(), top.predicate, text)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	log.Info("Ontology graph loaded", zap.Int("subjects", len(g.triples)))
	return g, nil
}

func attr(el xml.StartElement, space, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local && (a.Name.Space == space || a.Name.Space == "rdf" || a.Name.Space == "") {
			return a.Value
		}
	}
	return ""
}

func (g *Graph) add(subject, predicate, object string) {
	preds, ok := g.triples[subject]
	if !ok {
		preds = map[string][]string{}
		g.triples[subject] = preds
	}
	preds[predicate] = append(preds[predicate], object)
}

// Objects returns the objects of (subject, predicate).
func (g *Graph) Objects(subject, predicate string) []string {
	return g.triples[subject][predicate]
}

// Value returns the first object of (subject, predicate), or "".
func (g *Graph) Value(subject, predicate string) string {
	objects := g.triples[subject][predicate]
	if len(objects) == 0 {
		return ""
	}
	return objects[0]
}

// Subjects returns every subject holding (predicate, object).
func (g *Graph) Subjects(predicate, object string) []string {
	var out []string
	for subject, preds := range g.triples {
		for _, o := range preds[predicate] {
			if o == object {
				out = append(out, subject)
				break
			}
		}
	}
	return out
}

// Slug maps a human title to its graph entity URI.
func Slug(title string) string {
	return BookNS + strings.ReplaceAll(title, " ", "_")
}

// Label resolves an entity back to a human title: an explicit
// rdfs:label wins, otherwise the URI fragment with underscores
// reversed to spaces.
func (g *Graph) Label(uri string) string {
	if label := g.Value(uri, labelPredicate); label != "" {
		return label
	}
	fragment := uri
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		fragment = uri[i+1:]
	}
	return strings.ReplaceAll(fragment, "_", " ")
}

// Related returns the titles sharing an author or a genre with the
// query title. Same-author OR same-genre counts, the sets are unioned.
// An unknown book returns an empty set.
func (g *Graph) Related(title string) map[string]struct{} {
	keep := map[string]struct{}{}
	if title == "" {
		return keep
	}

	entity := Slug(title)
	authors := g.Objects(entity, hasAuthorPredicate)
	genres := g.Objects(entity, hasGenrePredicate)

	matched := map[string]struct{}{}
	for _, a := range authors {
		for _, s := range g.Subjects(hasAuthorPredicate, a) {
			matched[s] = struct{}{}
		}
	}
	for _, ge := range genres {
		for _, s := range g.Subjects(hasGenrePredicate, ge) {
			matched[s] = struct{}{}
		}
	}

	for s := range matched {
		keep[g.Label(s)] = struct{}{}
	}
	return keep
}
