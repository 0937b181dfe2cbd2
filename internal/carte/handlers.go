package carte

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/metrics"
	"github.com/sommia/sommelier/internal/pairing"
	"github.com/sommia/sommelier/internal/server"
	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/wine"
)

// Routes implements plugin.HTTPProvider. Mounted under /api/v1/carte.
func (p *Plugin) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodPost, Path: "/sessions", Handler: p.handleCreateSession},
		{Method: http.MethodGet, Path: "/sessions/{id}", Handler: p.handleGetSession},
		{Method: http.MethodPost, Path: "/recommendations", Handler: p.handleRecommendations},
	}
}

// wineEntry is the wire form of one wine in a restaurant list. Extracted
// lists key the color "type"; "color" is accepted as an alias so cellar
// exports can be replayed as a list.
type wineEntry struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Color       string  `json:"color"`
	Producer    string  `json:"producer"`
	Region      string  `json:"region"`
	Vintage     int     `json:"vintage"`
	PriceBottle float64 `json:"price_bottle"`
	PriceGlass  float64 `json:"price_glass"`
	Quality     int     `json:"quality"`
}

func (e wineEntry) candidate() wine.Candidate {
	label := e.Type
	if label == "" {
		label = e.Color
	}
	return wine.Candidate{
		Name:        e.Name,
		Producer:    e.Producer,
		Region:      e.Region,
		Color:       wine.ParseColor(label),
		Vintage:     e.Vintage,
		PriceBottle: e.PriceBottle,
		PriceGlass:  e.PriceGlass,
		Quality:     e.Quality,
	}
}

func candidatesFromEntries(entries []wineEntry) []wine.Candidate {
	out := make([]wine.Candidate, len(entries))
	for i, e := range entries {
		out[i] = e.candidate()
	}
	return out
}

// createSessionRequest is the body for POST /sessions.
type createSessionRequest struct {
	Name  string      `json:"name"`
	Wines []wineEntry `json:"wines"`
}

// handleCreateSession stores a restaurant wine list for later reference.
func (p *Plugin) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body: "+err.Error(), r.URL.Path)
		return
	}
	if len(req.Wines) == 0 {
		server.BadRequest(w, "a session requires at least one wine", r.URL.Path)
		return
	}

	session, err := p.repo.Insert(r.Context(), req.Name, candidatesFromEntries(req.Wines))
	if err != nil {
		p.logger.Error("create session failed", zap.Error(err))
		server.InternalError(w, "failed to store session", r.URL.Path)
		return
	}

	if p.bus != nil {
		p.bus.PublishAsync(r.Context(), plugin.Event{
			Topic:   TopicSessionCreated,
			Source:  p.Name(),
			Payload: session.ID,
		})
	}

	writeJSON(w, http.StatusCreated, session)
}

// handleGetSession returns a stored wine list.
func (p *Plugin) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	session, err := p.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			server.NotFound(w, fmt.Sprintf("session %q not found", id), r.URL.Path)
			return
		}
		p.logger.Error("get session failed", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to load session", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// recommendationRequest is the body for POST /recommendations. Either an
// inline wine list or a session id must be provided.
type recommendationRequest struct {
	Dish      string      `json:"dish_description"`
	Budget    float64     `json:"user_budget"`
	WineType  string      `json:"wine_type"`
	Wines     []wineEntry `json:"available_wines"`
	SessionID string      `json:"restaurant_session_id"`
}

// recommendationResponse is the success envelope shared with the sommelier
// plugin.
type recommendationResponse struct {
	Success         bool          `json:"success"`
	Dish            string        `json:"dish"`
	SessionID       string        `json:"restaurant_session_id,omitempty"`
	Recommendations []wine.Scored `json:"recommendations"`
}

// handleRecommendations scores a fixed wine list against a dish.
func (p *Plugin) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body: "+err.Error(), r.URL.Path)
		p.publishServed(r, metrics.OutcomeError, start)
		return
	}

	candidates := candidatesFromEntries(req.Wines)
	if len(candidates) == 0 && req.SessionID != "" {
		session, err := p.repo.Get(r.Context(), req.SessionID)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				server.NotFound(w, fmt.Sprintf("session %q not found", req.SessionID), r.URL.Path)
			} else {
				p.logger.Error("load session failed", zap.String("id", req.SessionID), zap.Error(err))
				server.InternalError(w, "failed to load session", r.URL.Path)
			}
			p.publishServed(r, metrics.OutcomeError, start)
			return
		}
		candidates = session.Wines
	}

	result, err := p.engine.Recommend(r.Context(), wine.Request{
		Dish:       req.Dish,
		Budget:     req.Budget,
		Preference: wine.ParseColor(req.WineType),
		Source:     wine.SourceFixedList,
		Candidates: candidates,
		SessionID:  req.SessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, pairing.ErrEmptyDish):
			server.BadRequest(w, "dish is required", r.URL.Path)
		case errors.Is(err, pairing.ErrEmptyWineList):
			server.BadRequest(w, "wine list is empty: send available_wines or a restaurant_session_id", r.URL.Path)
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

	writeJSON(w, http.StatusOK, recommendationResponse{
		Success:         true,
		Dish:            result.Dish,
		SessionID:       result.SessionID,
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
			Mode:    "carte",
			Outcome: outcome,
			Elapsed: time.Since(start),
		},
	})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
