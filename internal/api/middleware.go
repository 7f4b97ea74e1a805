package api

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/session"
)

type contextKey string

const sessionKey contextKey = "session"

// logRequests logs method, path, status, and duration for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// cors allows the configured frontend origin to call the API with
// credentials. Without a configured frontend the header is omitted and
// same-origin requests proceed as usual.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.cfg.Server.FrontendURL; origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession resolves the session cookie and stores the session in
// the request context. Requests without a valid session get 401.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessionFromRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromRequest loads the session identified by the cookie.
func (s *Server) sessionFromRequest(r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "not authenticated")
	}

	sess, err := s.sessions.Get(r.Context(), cookie.Value)
	if err == session.ErrExpired {
		return nil, apperrors.New(apperrors.ErrCodeSessionExpired, "session expired")
	}
	if err == session.ErrNotFound {
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "session not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "load session")
	}
	return sess, nil
}

// sessionFromContext returns the session stored by requireSession.
func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}
