package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tallyhq/tally/internal/api/handler"
	"github.com/tallyhq/tally/internal/api/middleware"
	"github.com/tallyhq/tally/internal/services/profile"
	"github.com/tallyhq/tally/internal/sync"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Syncer         *sync.Syncer
	ProfileService *profile.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	boardHandler := handler.NewBoardHandler(cfg.Syncer, cfg.ProfileService)
	playerHandler := handler.NewPlayerHandler(cfg.Syncer)
	scoreHandler := handler.NewScoreHandler(cfg.Syncer)
	exportHandler := handler.NewExportHandler(cfg.ProfileService)
	eventsHandler := handler.NewEventsHandler(cfg.Syncer)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Identity())

	// Board lifecycle
	api.HandleFunc("/boards", boardHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/boards", boardHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/boards/{id}", boardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/boards/{id}/select", boardHandler.Select).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}/share", boardHandler.Share).Methods(http.MethodGet)
	api.HandleFunc("/boards/{id}/transfer", boardHandler.Transfer).Methods(http.MethodPost)

	// Players and activities
	api.HandleFunc("/boards/{id}/players", playerHandler.AddPlayer).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}/players/{player_id}/photo", playerHandler.SetPhoto).Methods(http.MethodPut)
	api.HandleFunc("/boards/{id}/activities", playerHandler.AddActivity).Methods(http.MethodPost)

	// Scores and standings
	api.HandleFunc("/boards/{id}/scores", scoreHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}/scores/last", scoreHandler.RemoveLast).Methods(http.MethodDelete)
	api.HandleFunc("/boards/{id}/scores", scoreHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/boards/{id}/standings", scoreHandler.Standings).Methods(http.MethodGet)

	// Live updates
	api.HandleFunc("/boards/{id}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Export / import
	api.HandleFunc("/export", exportHandler.Export).Methods(http.MethodGet)
	api.HandleFunc("/boards/{id}/export", exportHandler.ExportBoard).Methods(http.MethodGet)
	api.HandleFunc("/import", exportHandler.Import).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
