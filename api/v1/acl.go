package v1

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/bookbid/bookbid/api/auth"
	"github.com/bookbid/bookbid/http/request"
	"github.com/bookbid/bookbid/http/response"
	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
	"github.com/bookbid/bookbid/store"
)

// Paths reachable without a session. /api/me is open because it reports
// the anonymous state instead of rejecting it.
var unauthenticatedPaths = []string{
	"/api/register",
	"/api/login",
	"/api/logout",
	"/api/me",
}

type AuthInterceptor struct {
	store  *store.Store
	secret []byte
}

func NewAuthInterceptor(store *store.Store, secret []byte) *AuthInterceptor {
	return &AuthInterceptor{store: store, secret: secret}
}

func (m *AuthInterceptor) AuthenticationInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			if isUnauthenticatedAllowed(r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("Failed to authenticate user",
				zap.String("client_ip", request.FindClientIP(r)),
				zap.String("user_agent", r.UserAgent()),
				zap.Error(err),
			)
			response.Unauthorized(w, r)
			return
		}

		user, err := m.store.GetUser(&model.FindUser{Email: &claims.Subject})
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		if user == nil {
			if isUnauthenticatedAllowed(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("Session user no longer exists", zap.String("email", claims.Subject))
			response.Unauthorized(w, r)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, request.UserEmailContextKey, user.Email)
		ctx = context.WithValue(ctx, request.UserNameContextKey, user.Name)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthInterceptor) authenticate(r *http.Request) (*auth.ClaimsMessage, error) {
	accessToken := getAccessToken(r)
	return auth.ParseAccessToken(accessToken, m.secret)
}

func isUnauthenticatedAllowed(path string) bool {
	for _, p := range unauthenticatedPaths {
		if path == p {
			return true
		}
	}
	return false
}

func getAccessToken(r *http.Request) string {
	// Check the HTTP Authorization header first
	authorizationHeaders := r.Header.Get("Authorization")
	// Check bearer token
	if authorizationHeaders != "" {
		splitToken := strings.Split(authorizationHeaders, "Bearer ")
		if len(splitToken) == 2 {
			return splitToken[1]
		}
	}

	// Check the cookie header
	var accessToken string
	for _, cookie := range r.Cookies() {
		if cookie.Name == auth.AccessTokenCookieName {
			accessToken = cookie.Value
		}
	}
	return accessToken
}
