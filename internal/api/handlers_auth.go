package api

import (
	"net/http"
	"time"

	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/salesforce"
	"github.com/Jaganpro/sf-schema-viewer/pkg/session"
)

// authStatus is the /auth/status response.
type authStatus struct {
	Authenticated bool      `json:"is_authenticated"`
	User          *authUser `json:"user,omitempty"`
	InstanceURL   string    `json:"instance_url,omitempty"`
}

type authUser struct {
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name,omitempty"`
	Email           string `json:"email,omitempty"`
	OrgID           string `json:"org_id"`
	APIVersionLabel string `json:"api_version_label"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin starts the OAuth flow: generate a CSRF state token and
// redirect to the Salesforce authorization page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Salesforce.ClientID == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidConfig, "salesforce client_id not configured"))
		return
	}

	state, err := s.states.Generate(r.Context(), session.DefaultStateTTL)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "generate state token"))
		return
	}

	http.Redirect(w, r, s.oauth.AuthorizationURL(state), http.StatusFound)
}

// handleCallback finishes the OAuth flow: validate state, exchange the
// code, resolve the identity, create the session, and bounce back to the
// frontend with the session cookie set.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state := r.URL.Query().Get("state")
	ok, err := s.states.Validate(ctx, state)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "validate state token"))
		return
	}
	if !ok {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidState, "invalid state parameter"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "missing authorization code"))
		return
	}

	token, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		writeError(w, err)
		return
	}

	identity, err := s.oauth.FetchIdentity(ctx, token)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := session.New(token.AccessToken, token.RefreshToken, token.InstanceURL, s.cfg.Sessions.TTL)
	sess.UserID = identity.UserID
	sess.Username = identity.Username
	sess.DisplayName = identity.DisplayName
	sess.Email = identity.Email
	sess.OrgID = identity.OrgID

	if err := s.sessions.Set(ctx, sess); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "store session"))
		return
	}

	s.setSessionCookie(w, sess)
	s.logger.Info("user logged in", "username", sess.Username, "org", sess.OrgID)

	target := s.cfg.Server.FrontendURL
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusOK, authStatus{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, authStatus{
		Authenticated: true,
		InstanceURL:   sess.InstanceURL,
		User: &authUser{
			UserID:          sess.UserID,
			Username:        sess.Username,
			DisplayName:     sess.DisplayName,
			Email:           sess.Email,
			OrgID:           sess.OrgID,
			APIVersionLabel: salesforce.ReleaseLabel(s.cfg.Salesforce.APIVersion),
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.Warn("delete session", "err", err)
		}
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// handleRefresh exchanges the stored refresh token for a new access
// token. Called by the frontend when API requests start returning 401.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if sess.RefreshToken == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "no refresh token; log in again"))
		return
	}

	token, err := s.oauth.Refresh(r.Context(), sess.RefreshToken)
	if err != nil {
		// The refresh token is dead; force a fresh login.
		_ = s.sessions.Delete(r.Context(), sess.ID)
		s.clearSessionCookie(w)
		writeError(w, apperrors.Wrap(apperrors.ErrCodeSessionExpired, err, "refresh token expired; log in again"))
		return
	}

	sess.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		sess.RefreshToken = token.RefreshToken
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "store session"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "token refreshed"})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
