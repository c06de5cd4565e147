package request

import "net/http"

type ContextKey int

const (
	ClientIPContextKey ContextKey = iota
	UserEmailContextKey
	UserNameContextKey
)

func getContextStringValue(r *http.Request, key ContextKey) string {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(string); valid {
			return value
		}
	}
	return ""
}

// ClientIP returns the client IP address stored in the context.
func ClientIP(r *http.Request) string {
	return getContextStringValue(r, ClientIPContextKey)
}

// UserEmail returns the authenticated user's email, or "".
func UserEmail(r *http.Request) string {
	return getContextStringValue(r, UserEmailContextKey)
}

// UserName returns the authenticated user's display name, or "".
func UserName(r *http.Request) string {
	return getContextStringValue(r, UserNameContextKey)
}
