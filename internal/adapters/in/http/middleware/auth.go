package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient aliases the firebase auth client so callers can take
// a *middleware.FirebaseAuthClient without importing the firebase SDK.
type FirebaseAuthClient = fbauth.Client

// context keys use a private type to avoid collisions (SA1029).
type ctxKey struct{ name string }

var (
	ctxKeyUID   = ctxKey{name: "uid"}
	ctxKeyEmail = ctxKey{name: "email"}
)

// UserAuth verifies "Authorization: Bearer <ID_TOKEN>" against Firebase
// and stores uid/email in the request context. There is no member or
// company concept here; any authenticated user may mint.
type UserAuth struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *UserAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		email := ""
		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 {
				email = strings.TrimSpace(e)
			}
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ctxKeyUID, uid)
		ctx = context.WithValue(ctx, ctxKeyEmail, email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UIDFromContext returns the verified Firebase uid, if any.
func UIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ctxKeyUID).(string)
	return uid, ok && uid != ""
}

// EmailFromContext returns the token email claim, if present.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ctxKeyEmail).(string)
	return email, ok && email != ""
}
