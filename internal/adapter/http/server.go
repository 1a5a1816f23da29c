package adapthttp

import (
	"net/http"

	"acme/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the optional SSO provider wiring.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services. It owns the listing view cache and performs the redirect and
// invalidation side of successful mutations.
type Server struct {
	invoices    *app.InvoiceService
	auth        *app.AuthService
	cache       *viewCache
	webDir      string
	oidcConfig  OIDCConfig
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(invoices *app.InvoiceService, auth *app.AuthService, webDir string) *Server {
	return &Server{invoices: invoices, auth: auth, cache: newViewCache(), webDir: webDir}
}

// WithOIDC enables SSO sign-in against the given provider.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	r.HandleFunc("/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	dash := r.PathPrefix("/dashboard").Subrouter()
	dash.Use(s.authMiddleware)
	dash.HandleFunc("/invoices", s.handleListInvoices).Methods(http.MethodGet)
	dash.HandleFunc("/invoices", s.handleCreateInvoice).Methods(http.MethodPost)
	dash.HandleFunc("/invoices/{id}", s.handleGetInvoice).Methods(http.MethodGet)
	dash.HandleFunc("/invoices/{id}", s.handleUpdateInvoice).Methods(http.MethodPost)
	dash.HandleFunc("/invoices/{id}", s.handleDeleteInvoice).Methods(http.MethodDelete)
	dash.HandleFunc("/customers", s.handleListCustomers).Methods(http.MethodGet)
	dash.HandleFunc("/user", s.handleUser).Methods(http.MethodGet)
	dash.HandleFunc("/user/delete", s.handleDeleteAccount).Methods(http.MethodPost)

	r.PathPrefix("/").Handler(staticFromDisk(s.webDir))

	return withNoStore(r)
}

// renderResult applies a form action's outcome: invalidate the named views,
// then either redirect or write the state back for inline re-render.
func (s *Server) renderResult(w http.ResponseWriter, r *http.Request, res *app.Result) {
	s.cache.Invalidate(res.Invalidate...)

	if res.RedirectTo != "" {
		http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)
		return
	}

	writeJSON(w, statusFor(res), res)
}

func statusFor(res *app.Result) int {
	switch res.Kind {
	case app.ValidationFailed:
		return http.StatusBadRequest
	case app.PersistFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}
