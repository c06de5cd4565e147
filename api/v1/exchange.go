package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbid/bookbid/http/request"
	"github.com/bookbid/bookbid/http/response"
	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
)

// exchangeList returns the full ranked candidate listing plus the
// caller's own titles and cards.
func (h *Handler) exchangeList(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)

	myTitles, myCards, err := h.engine.MyBooks(email)
	if err != nil {
		log.Error("Failed to list caller books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	items, err := h.engine.Candidates(email)
	if err != nil {
		log.Error("Failed to build exchange listing", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{
		"ok":        true,
		"my_titles": myTitles,
		"my_cards":  myCards,
		"books":     items,
	})
}

// exchangeSearch filters candidates by ontology relatedness. An empty
// query returns an empty list, not an error and not the full catalog.
func (h *Handler) exchangeSearch(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)
	query := strings.TrimSpace(request.QueryStringParam(r, "q", ""))

	items, err := h.engine.Search(email, query)
	if err != nil {
		log.Error("Failed to search exchange listing", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"ok": true, "books": items})
}

func (h *Handler) sendRequest(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)

	var create model.ExchangeRequestCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	req, err := h.engine.CreateRequest(email, &create)
	if err != nil {
		if errors.Is(err, model.ErrBadRequest) {
			response.BadRequest(w, r, errors.New("Missing fields"))
			return
		}
		log.Error("Failed to create exchange request", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"ok": true, "id": req.ID})
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)

	incoming, outgoing, err := h.engine.ListRequests(email)
	if err != nil {
		log.Error("Failed to list exchange requests", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{
		"ok":       true,
		"incoming": incoming,
		"outgoing": outgoing,
	})
}

func (h *Handler) acceptRequest(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)
	id := request.RouteStringParam(r, "id")

	if err := h.engine.Accept(id, email); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			response.NotFound(w, r)
		case errors.Is(err, model.ErrForbidden):
			response.Forbidden(w, r)
		default:
			log.Error("Failed to accept exchange request", zap.Error(err), zap.String("id", id))
			response.ServerError(w, r, err)
		}
		return
	}

	response.OK(w, r, map[string]any{"ok": true})
}
