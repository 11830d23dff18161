package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"filedrop/internal/api"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	result, err := s.authService.Login(r.Context(), req.AccessCode, req.Passphrase, time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, api.LoginResponse{
		OwnerID:   result.OwnerID,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
		Created:   result.Created,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionTokenFromRequest(r)
	if err := s.authService.Logout(r.Context(), token, time.Now().UTC()); err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// requireSession authenticates the request and stashes the owner id in
// the request context. The owner id never comes from the request body
// or URL.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionTokenFromRequest(r)
		ownerID, err := s.authService.Authenticate(r.Context(), token, time.Now().UTC())
		if err != nil {
			s.writeServiceError(w, r, storeFailure(err))
			return
		}
		if ownerID == "" {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("session required")))
			return
		}
		next(w, r.WithContext(contextWithOwnerID(r.Context(), ownerID)))
	}
}

func sessionTokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (s *Server) ownerOrUnauthorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("session required")))
		return "", false
	}
	return ownerID, true
}
