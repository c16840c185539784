package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// UserInfo is the resolved identity of the calling member.
type UserInfo struct {
	ID          int    `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
}

type contextKey int

const userInfoKey contextKey = iota

// userInfoFromContext returns the identity stored by ResolveUser.
func userInfoFromContext(ctx context.Context) (UserInfo, bool) {
	info, ok := ctx.Value(userInfoKey).(UserInfo)
	return info, ok
}

// mustUserID extracts the resolved user ID or writes a 401.
func mustUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	info, ok := userInfoFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no resolved user"})
		return 0, false
	}
	return info.ID, true
}

// ResolveUser resolves the calling member's identity and loads (or creates)
// the matching user row. On the tailnet the identity comes from a whois on the
// remote address; in dev mode every request maps to the local user.
func (s *Server) ResolveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, displayName := "local", "Local Dev User"

		if s.ts != nil {
			who, err := s.ts.WhoIs(r.Context(), r.RemoteAddr)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "identity lookup failed"})
				return
			}
			login = who.UserProfile.LoginName
			displayName = who.UserProfile.DisplayName
		}

		id, err := s.db.GetOrCreateUser(r.Context(), login, displayName)
		if err != nil {
			s.log.Error("resolving user", "login", login, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "user lookup failed"})
			return
		}

		ctx := context.WithValue(r.Context(), userInfoKey, UserInfo{ID: id, Login: login, DisplayName: displayName})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// APIKeyAuth returns middleware that validates the X-API-Key header.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				http.Error(w, `{"error":"missing API key"}`, http.StatusUnauthorized)
				return
			}
			if key != apiKey {
				http.Error(w, `{"error":"invalid API key"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
