package sommelier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/metrics"
	"github.com/sommia/sommelier/internal/testutil"
	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/roles"
	"github.com/sommia/sommelier/pkg/wine"
)

// fakeCellar is a cellar-role plugin backed by a fixed pool.
type fakeCellar struct {
	pool []wine.Candidate
	err  error
}

func (f *fakeCellar) Name() string                              { return "fake-cellar" }
func (f *fakeCellar) Version() string                           { return "0.0.0" }
func (f *fakeCellar) Init(_ plugin.Config, _ *zap.Logger) error { return nil }
func (f *fakeCellar) Start(_ context.Context) error             { return nil }
func (f *fakeCellar) Stop() error                               { return nil }
func (f *fakeCellar) Roles() []string                           { return []string{roles.RoleCellar} }

func (f *fakeCellar) Candidates(_ context.Context, _ roles.CatalogQuery) ([]wine.Candidate, error) {
	return f.pool, f.err
}

// fakeResolver resolves roles over a fixed peer list.
type fakeResolver struct {
	peers []plugin.Plugin
}

func (r *fakeResolver) ResolveByRole(role string) []plugin.Plugin {
	var out []plugin.Plugin
	for _, p := range r.peers {
		rp, ok := p.(plugin.RoleProvider)
		if !ok {
			continue
		}
		for _, declared := range rp.Roles() {
			if declared == role {
				out = append(out, p)
			}
		}
	}
	return out
}

func catalogPool() []wine.Candidate {
	return []wine.Candidate{
		testutil.NewWine(testutil.WithName("Saint-Julien"), testutil.WithColor(wine.ColorRed),
			testutil.WithPrice(22), testutil.WithQuality(85)),
		testutil.NewWine(testutil.WithName("Sancerre"), testutil.WithColor(wine.ColorWhite),
			testutil.WithPrice(15), testutil.WithQuality(90)),
		testutil.NewWine(testutil.WithName("Tavel"), testutil.WithColor(wine.ColorRose),
			testutil.WithPrice(12), testutil.WithQuality(75)),
	}
}

func newTestPlugin(t *testing.T, cellar *fakeCellar) (*Plugin, *testutil.MockBus) {
	t.Helper()

	p := NewPlugin()
	bus := testutil.NewMockBus()
	p.AttachBus(bus)
	p.AttachResolver(&fakeResolver{peers: []plugin.Plugin{cellar}})
	if err := p.Init(nil, zap.NewNop()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := p.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return p, bus
}

func serve(p *Plugin, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	for _, route := range p.Routes() {
		mux.HandleFunc(route.Method+" /api/v1/sommelier"+route.Path, route.Handler)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sommelier/recommendations", strings.NewReader(body)))
	return w
}

func TestStartRequiresCellarRole(t *testing.T) {
	p := NewPlugin()
	p.AttachResolver(&fakeResolver{})
	if err := p.Init(nil, zap.NewNop()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := p.Start(t.Context()); err == nil {
		t.Error("Start should fail without a cellar-role plugin")
	}
}

func TestCatalogRecommendations(t *testing.T) {
	p, bus := newTestPlugin(t, &fakeCellar{pool: catalogPool()})

	w := serve(p, `{"dish_description":"magret de canard","user_budget":25}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp recommendationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Dish != "magret de canard" {
		t.Errorf("envelope = %+v", resp)
	}
	// Budget 25 keeps the window [17.5, 30]: only the 22 unit red survives.
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].Name != "Saint-Julien" {
		t.Fatalf("recommendations = %+v, want only Saint-Julien", resp.Recommendations)
	}
	if resp.Recommendations[0].Score < 0 || resp.Recommendations[0].Score > 1 {
		t.Errorf("score out of range: %v", resp.Recommendations[0].Score)
	}
	if !strings.Contains(resp.Recommendations[0].Reasoning, "magret de canard") {
		t.Errorf("reasoning must cite the dish: %q", resp.Recommendations[0].Reasoning)
	}

	served := false
	for _, ev := range bus.Events() {
		if ev.Topic == metrics.TopicRecommendationServed {
			payload := ev.Payload.(metrics.RecommendationEvent)
			if payload.Mode != "catalog" || payload.Outcome != metrics.OutcomeOK {
				t.Errorf("payload = %+v", payload)
			}
			served = true
		}
	}
	if !served {
		t.Error("expected a recommendation.served event")
	}
}

func TestCatalogNoBudgetReturnsDiverseTopThree(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeCellar{pool: catalogPool()})

	w := serve(p, `{"dish_description":"magret de canard"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp recommendationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(resp.Recommendations))
	}
	colors := map[wine.Color]bool{}
	for _, rec := range resp.Recommendations {
		colors[rec.Color] = true
	}
	if len(colors) != 3 {
		t.Errorf("expected 3 distinct colors, got %v", colors)
	}
}

func TestCatalogPreference(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeCellar{pool: catalogPool()})

	w := serve(p, `{"dish_description":"saumon grillé","wine_type":"blanc"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp recommendationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, rec := range resp.Recommendations {
		if rec.Color != wine.ColorWhite {
			t.Errorf("preference blanc violated by %s", rec.Name)
		}
	}
}

func TestCatalogErrors(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeCellar{pool: catalogPool()})

	if w := serve(p, `{"user_budget":20}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing dish status = %d, want 400", w.Code)
	}
	if w := serve(p, `{"dish_description":"x","user_budget":-5}`); w.Code != http.StatusBadRequest {
		t.Errorf("negative budget status = %d, want 400", w.Code)
	}
	if w := serve(p, `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", w.Code)
	}
}

func TestCatalogEmptyCellar(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeCellar{})

	w := serve(p, `{"dish_description":"magret de canard"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("empty catalog status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content-type = %q", ct)
	}

	var fail struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&fail); err != nil {
		t.Fatalf("decode failure envelope: %v", err)
	}
	if fail.Success || fail.Error == "" {
		t.Errorf("failure envelope = %+v", fail)
	}
}

func TestCatalogSourceFailure(t *testing.T) {
	p, _ := newTestPlugin(t, &fakeCellar{err: errors.New("db gone")})

	w := serve(p, `{"dish_description":"magret de canard"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("source failure status = %d, want 500", w.Code)
	}
}
