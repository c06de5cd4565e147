package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookbid/bookbid/http/request"
	"github.com/bookbid/bookbid/http/response"
	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)

	user, err := h.store.GetUser(&model.FindUser{Email: &email})
	if err != nil {
		log.Error("Failed to get user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}

	response.OK(w, r, map[string]any{"ok": true, "user": user.Public()})
}

func (h *Handler) patchProfile(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)

	var payload model.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	user, err := h.store.GetUser(&model.FindUser{Email: &email})
	if err != nil {
		log.Error("Failed to get user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}

	update := &model.UpdateUser{}
	if v := payload.Name; v != nil {
		trimmed := strings.TrimSpace(*v)
		update.Name = &trimmed
	}
	if v := payload.City; v != nil {
		trimmed := strings.TrimSpace(*v)
		update.City = &trimmed
	}
	if v := payload.Address; v != nil {
		trimmed := strings.TrimSpace(*v)
		update.Address = &trimmed
	}
	if v := payload.Phone; v != nil {
		trimmed := strings.TrimSpace(*v)
		update.Phone = &trimmed
	}
	if v := payload.AvatarURL; v != nil {
		trimmed := strings.TrimSpace(*v)
		update.AvatarURL = &trimmed
	}

	// Optional password change: both fields together or neither, and
	// the current password must verify against the stored hash.
	if payload.CurrentPassword != "" || payload.NewPassword != "" {
		if payload.CurrentPassword == "" || payload.NewPassword == "" {
			response.BadRequest(w, r, errors.New("Both current_password and new_password are required"))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.CurrentPassword)); err != nil {
			response.BadRequest(w, r, errors.New("Current password is incorrect"))
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to generate password hash", zap.Error(err))
			response.ServerError(w, r, err)
			return
		}
		hashStr := string(hash)
		update.PasswordHash = &hashStr
	}

	updated, err := h.store.UpdateUser(email, update)
	if err != nil {
		log.Error("Failed to update profile", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"ok": true, "user": updated.Public()})
}
