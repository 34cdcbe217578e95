package server

import (
	"context"
	"errors"
	"net/http"
)

type adminSession struct {
	AdminID string
	Email   string
}

type ctxKey int

const ctxKeyAdmin ctxKey = iota

var errNoAdminSession = errors.New("no valid admin session")

const adminCookieName = "admin_session"

func adminAuthMiddleware(admin *AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := adminFromRequest(r, admin)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdmin, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// adminFromRequest reads the admin_session cookie and looks up the session.
func adminFromRequest(r *http.Request, admin *AdminStore) (adminSession, error) {
	cookie, err := r.Cookie(adminCookieName)
	if err != nil || cookie.Value == "" {
		return adminSession{}, errNoAdminSession
	}
	return admin.AdminFromSession(r.Context(), cookie.Value)
}

func adminFrom(r *http.Request) adminSession {
	return r.Context().Value(ctxKeyAdmin).(adminSession)
}
