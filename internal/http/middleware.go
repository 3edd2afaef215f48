package httpapi

import (
	"context"
	"net/http"
	"strings"
)

// Identity headers are filled in by the auth layer upstream of this service;
// the handlers here only consume them.
const (
	HeaderUserID  = "X-User-Id"
	HeaderAdminID = "X-Admin-Id"
)

type ctxKey string

const (
	ctxUserID  ctxKey = "user_id"
	ctxAdminID ctxKey = "admin_id"
)

// RequireUser enforces X-User-Id and stores it in context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if uid == "" {
			writeError(w, http.StatusUnauthorized, "missing required header: "+HeaderUserID)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin enforces X-Admin-Id on back-office routes.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		aid := strings.TrimSpace(r.Header.Get(HeaderAdminID))
		if aid == "" {
			writeError(w, http.StatusUnauthorized, "missing required header: "+HeaderAdminID)
			return
		}
		ctx := context.WithValue(r.Context(), ctxAdminID, aid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func AdminID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}
