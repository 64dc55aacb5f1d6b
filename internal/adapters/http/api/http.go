// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TaxonomyDependencies
	CreatureDependencies
	AnalyticsDependencies
}

// TaxonomyDependencies serves merged taxonomy lists.
type TaxonomyDependencies interface {
	GetMergedTaxonomy(ctx context.Context, kind types.Kind) []model.TaxonomyEntry
	GetTaxonomyCatalog(ctx context.Context, kind types.Kind) []model.TaxonomyEntry
}

// CreatureDependencies serves aggregated creatures.
type CreatureDependencies interface {
	GetCreatures(ctx context.Context, filters model.Filters) []model.Creature
	GetCreature(ctx context.Context, itemTypeID string) (model.Creature, bool)
}

// AnalyticsDependencies serves analytics snapshots.
type AnalyticsDependencies interface {
	GetAnalyticsSnapshot(ctx context.Context, window types.Window, filters model.Filters) model.AnalyticsSnapshot
}

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	taxonomyHandler  *TaxonomyHandler
	creaturesHandler *CreaturesHandler
	analyticsHandler *AnalyticsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		taxonomyHandler:  NewTaxonomyHandler(deps),
		creaturesHandler: NewCreaturesHandler(deps),
		analyticsHandler: NewAnalyticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/taxonomy", MetricsMiddleware(s.taxonomyHandler.HandleGetTaxonomy, "taxonomy"))
	mux.HandleFunc("/creatures", MetricsMiddleware(s.creaturesHandler.HandleListCreatures, "creatures"))
	mux.HandleFunc("/creatures/", MetricsMiddleware(s.creaturesHandler.HandleGetCreature, "creature"))
	mux.HandleFunc("/analytics", MetricsMiddleware(s.analyticsHandler.HandleGetAnalytics, "analytics"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// filtersFromQuery reads category, type and situation. Values are matched
// exactly, so only surrounding whitespace is trimmed.
func filtersFromQuery(q url.Values) model.Filters {
	return model.Filters{
		CategoryID:  strings.TrimSpace(q.Get("category")),
		ItemType:    strings.TrimSpace(q.Get("type")),
		SituationID: strings.TrimSpace(q.Get("situation")),
	}
}
