package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookbid/bookbid/api/auth"
	"github.com/bookbid/bookbid/config"
	"github.com/bookbid/bookbid/http/request"
	"github.com/bookbid/bookbid/http/response"
	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
	"github.com/bookbid/bookbid/validator"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	signup := &model.UserRegisterRequest{}
	if err := json.NewDecoder(r.Body).Decode(signup); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	if err := validator.ValidateRegisterRequest(h.store, signup); err != nil {
		log.Warn("Failed to validate register request", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to generate password hash", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	user := model.User{
		Name:         signup.Name,
		Email:        signup.Email,
		City:         signup.City,
		Address:      signup.Address,
		Phone:        signup.Phone,
		PasswordHash: string(passwordHash),
		Books:        signup.SelectedBooks,
	}

	newUser, err := h.store.CreateUser(&user)
	if err != nil {
		log.Error("Failed to register user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"ok": true, "user": newUser.Public()})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var login model.UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	if login.Email == "" || login.Password == "" {
		response.BadRequest(w, r, errors.New("Missing credentials"))
		return
	}

	user, err := h.store.GetUser(&model.FindUser{Email: &login.Email})
	if err != nil {
		log.Error("Failed to get user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	// Unknown email and wrong password return the same message so the
	// endpoint cannot be used to enumerate accounts.
	if user == nil {
		response.BadRequest(w, r, errors.New("Invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		response.BadRequest(w, r, errors.New("Invalid email or password"))
		return
	}

	expireTime := time.Now().Add(time.Duration(config.Opts.SessionHours) * time.Hour)
	accessToken, err := auth.GenerateAccessToken(user.Email, user.Name, expireTime, h.secret)
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	w.Header().Set("Set-Cookie", buildAccessTokenCookie(accessToken, expireTime, r.Header.Get("Origin")))
	response.OK(w, r, map[string]any{
		"ok":   true,
		"user": model.SessionUser{Email: user.Email, Name: user.Name},
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	// An expired cookie clears the session on the client.
	w.Header().Set("Set-Cookie", buildAccessTokenCookie("", time.Time{}, r.Header.Get("Origin")))
	response.OK(w, r, map[string]any{"ok": true})
}

// me reports session state: 200 with a null user when anonymous.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	email := request.UserEmail(r)
	if email == "" {
		response.OK(w, r, map[string]any{"ok": false, "user": nil})
		return
	}
	response.OK(w, r, map[string]any{
		"ok":   true,
		"user": model.SessionUser{Email: email, Name: request.UserName(r)},
	})
}

func buildAccessTokenCookie(accessToken string, expireTime time.Time, origin string) string {
	attrs := []string{
		fmt.Sprintf("%s=%s", auth.AccessTokenCookieName, accessToken),
		"Path=/",
		"HttpOnly",
	}
	if expireTime.IsZero() {
		attrs = append(attrs, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	} else {
		attrs = append(attrs, "Expires="+expireTime.Format(time.RFC1123))
	}

	if strings.HasPrefix(origin, "https://") {
		attrs = append(attrs, "Secure")
		attrs = append(attrs, "SameSite=None")
	} else {
		attrs = append(attrs, "SameSite=Lax")
	}
	return strings.Join(attrs, "; ")
}
