package sommelier

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/metrics"
	"github.com/sommia/sommelier/internal/pairing"
	"github.com/sommia/sommelier/internal/server"
	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/roles"
	"github.com/sommia/sommelier/pkg/wine"
)

// Routes implements plugin.HTTPProvider. Mounted under /api/v1/sommelier.
func (p *Plugin) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodPost, Path: "/recommendations", Handler: p.handleRecommendations},
	}
}

// recommendationRequest is the body for POST /recommendations.
type recommendationRequest struct {
	Dish     string  `json:"dish_description"`
	Budget   float64 `json:"user_budget"`
	WineType string  `json:"wine_type"`
}

// recommendationResponse is the success envelope shared with the carte
// plugin.
type recommendationResponse struct {
	Success         bool          `json:"success"`
	Dish            string        `json:"dish"`
	Recommendations []wine.Scored `json:"recommendations"`
}

// handleRecommendations scores the cellar catalog against a dish.
func (p *Plugin) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body: "+err.Error(), r.URL.Path)
		p.publishServed(r, metrics.OutcomeError, start)
		return
	}
	if req.Budget < 0 {
		server.BadRequest(w, "budget must not be negative", r.URL.Path)
		p.publishServed(r, metrics.OutcomeError, start)
		return
	}

	// The engine owns budget and preference semantics, including the
	// revert-to-full-set fallback, so fetch the whole catalog.
	candidates, err := p.source.Candidates(r.Context(), roles.CatalogQuery{})
	if err != nil {
		p.logger.Error("candidate fetch failed", zap.Error(err))
		server.InternalError(w, "failed to load the wine catalog", r.URL.Path)
		p.publishServed(r, metrics.OutcomeError, start)
		return
	}

	result, err := p.engine.Recommend(r.Context(), wine.Request{
		Dish:       req.Dish,
		Budget:     req.Budget,
		Preference: wine.ParseColor(req.WineType),
		Source:     wine.SourceCatalog,
		Candidates: candidates,
	})
	if err != nil {
		switch {
		case errors.Is(err, pairing.ErrEmptyDish):
			server.BadRequest(w, "dish is required", r.URL.Path)
		case errors.Is(err, pairing.ErrNoCandidates):
			server.NotFound(w, "the wine catalog is empty", r.URL.Path)
		default:
			p.logger.Error("recommendation failed", zap.Error(err))
			server.InternalError(w, "recommendation failed", r.URL.Path)
		}
		p.publishServed(r, metrics.OutcomeError, start)
		return
	}

	outcome := metrics.OutcomeOK
	if len(result.Recommendations) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	p.publishServed(r, outcome, start)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recommendationResponse{
		Success:         true,
		Dish:            result.Dish,
		Recommendations: result.Recommendations,
	})
}

// publishServed emits the metrics event for one finished request.
func (p *Plugin) publishServed(r *http.Request, outcome string, start time.Time) {
	if p.bus == nil {
		return
	}
	p.bus.PublishAsync(r.Context(), plugin.Event{
		Topic:  metrics.TopicRecommendationServed,
		Source: p.Name(),
		Payload: metrics.RecommendationEvent{
			Mode:    "catalog",
			Outcome: outcome,
			Elapsed: time.Since(start),
		},
	})
}
