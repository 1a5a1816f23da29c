// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"
)

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, message, err := s.auth.Authenticate(r.Context(), r.PostForm)
	if err != nil {
		// Not an authentication failure: surface the generic error page.
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if message != "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": message})
		return
	}

	setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard/invoices", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		_ = s.auth.SignOut(r.Context(), cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, token := s.auth.Register(r.Context(), r.PostForm)
	if token != "" {
		setSessionCookie(w, token)
	}
	s.renderResult(w, r, res)
}
