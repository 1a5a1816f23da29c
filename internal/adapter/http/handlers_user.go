package adapthttp

import "net/http"

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleDeleteAccount deletes the authenticated user's account and ends the
// session. The identity comes from the validated session, not from the form.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var token string
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		token = cookie.Value
	}

	res := s.auth.DeleteAccount(r.Context(), user.Email, token)
	if res.RedirectTo != "" {
		clearSessionCookie(w)
	}
	s.renderResult(w, r, res)
}
