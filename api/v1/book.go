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

func (h *Handler) myBooks(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)

	titles, cards, err := h.engine.MyBooks(email)
	if err != nil {
		log.Error("Failed to list user books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"ok": true, "titles": titles, "cards": cards})
}

type bookTitleRequest struct {
	Title string `json:"title"`
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)

	var body bookTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		response.BadRequest(w, r, errors.New("Missing title"))
		return
	}

	books, err := h.engine.AddBook(email, title)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(w, r)
			return
		}
		log.Error("Failed to add book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"ok": true, "books": books})
}

func (h *Handler) removeBook(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)

	var body bookTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	title := strings.TrimSpace(body.Title)

	books, err := h.engine.RemoveBook(email, title)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(w, r)
			return
		}
		log.Error("Failed to remove book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"ok": true, "books": books})
}
