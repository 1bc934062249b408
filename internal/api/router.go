package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/versflip/versflip/internal/api/handler"
	"github.com/versflip/versflip/internal/api/middleware"
	"github.com/versflip/versflip/internal/services/auth"
	"github.com/versflip/versflip/internal/services/wager"
	"github.com/versflip/versflip/internal/services/wallet"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	WalletService   *wallet.Service
	WagerController *wager.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	sessionHandler := handler.NewSessionHandler(cfg.AuthService)
	walletHandler := handler.NewWalletHandler(cfg.WalletService)
	wagerHandler := handler.NewWagerHandler(cfg.WagerController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for registering/logging in)
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/sessions/guest", sessionHandler.CreateGuest).Methods(http.MethodPost)

	// Identity linking works with or without an existing session
	linking := api.NewRoute().Subrouter()
	linking.Use(middleware.OptionalAuth(cfg.AuthService))
	linking.HandleFunc("/identity/link", accountHandler.Link).Methods(http.MethodPost)

	// Protected routes; guest sessions qualify, the balance they reach
	// is just the anonymous one
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/accounts/me", accountHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/logout", sessionHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/wallet/balance", walletHandler.GetBalance).Methods(http.MethodGet)
	protected.HandleFunc("/wager", wagerHandler.Place).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
