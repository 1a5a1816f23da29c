package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	adapthttp "acme/internal/adapter/http"
	"acme/internal/adapter/memory"
	"acme/internal/adapter/postgres"
	"acme/internal/app"
	"acme/internal/config"
	"acme/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		invoiceRepo  domain.InvoiceRepository
		customerRepo domain.CustomerRepository
		userRepo     domain.UserRepository
		sessionRepo  domain.SessionRepository
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()

		invoiceRepo, customerRepo, userRepo = db, db, db
		sessionRepo = postgres.NewSessionRepo(db)
	} else {
		log.Print("DATABASE_URL not set, using in-memory store")
		db := memory.New()
		seedCustomers(db)
		invoiceRepo, customerRepo, userRepo = db, db, db
		sessionRepo = memory.NewSessionRepo(db)
	}

	invoiceSvc := app.NewInvoiceService(invoiceRepo, customerRepo)
	authSvc := app.NewAuthService(userRepo, sessionRepo)
	go purgeSessions(authSvc)

	srv := adapthttp.New(invoiceSvc, authSvc, cfg.WebDir)
	if cfg.OIDCIssuer != "" {
		oidcCfg, err := buildOIDC(cfg)
		if err != nil {
			log.Fatalf("oidc: %v", err)
		}
		srv = srv.WithOIDC(oidcCfg)
	}

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func buildOIDC(cfg config.Config) (adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(context.Background(), cfg.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// purgeSessions sweeps expired session rows every hour.
func purgeSessions(auth *app.AuthService) {
	for range time.Tick(time.Hour) {
		if err := auth.PurgeExpiredSessions(context.Background()); err != nil {
			log.Printf("session purge: %v", err)
		}
	}
}

func seedCustomers(db *memory.DB) {
	seed := map[string]string{
		"Evil Rabbit":       "evil@rabbit.com",
		"Delba de Oliveira": "delba@oliveira.com",
		"Lee Robinson":      "lee@robinson.com",
	}
	for name, email := range seed {
		db.AddCustomer(domain.Customer{ID: uuid.NewString(), Name: name, Email: email})
	}
}
