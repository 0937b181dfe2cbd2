package pairing

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/pkg/wine"
)

// Sentinel errors surfaced to the HTTP layer. Structural violations and a
// genuinely empty pool propagate; recoverable conditions (empty-after-filter,
// LLM unavailable) are absorbed here.
var (
	// ErrEmptyDish rejects a request without a dish description.
	ErrEmptyDish = errors.New("dish description is empty")
	// ErrEmptyWineList rejects a fixed-list request whose candidate list is
	// empty: a precondition failure, never a zero-result success.
	ErrEmptyWineList = errors.New("available wine list is empty")
	// ErrNoCandidates means the catalog produced no wines at all.
	ErrNoCandidates = errors.New("no wine candidates available")
)

// Engine runs the full recommendation pipeline: budget filter, dish
// classification, scoring, diversity selection, reasoning, assembly. It is
// stateless across calls; each invocation operates only on request-local
// data.
type Engine struct {
	tuning   Tuning
	scorer   *Scorer
	baseline ReasoningProvider
	enhancer ReasoningProvider
	logger   *zap.Logger

	onReasoningFallback func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithEnhancer installs an optional richer reasoning provider (LLM-backed).
// Any enhancer failure silently falls back to the deterministic templates.
func WithEnhancer(provider ReasoningProvider) Option {
	return func(e *Engine) { e.enhancer = provider }
}

// WithReasoningFallbackHook registers a callback invoked whenever the
// enhancer fails and the template path is used. Used for metrics.
func WithReasoningFallbackHook(fn func()) Option {
	return func(e *Engine) { e.onReasoningFallback = fn }
}

// NewEngine creates an Engine with the given tuning.
func NewEngine(t Tuning, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		tuning:   t,
		scorer:   NewScorer(t),
		baseline: NewTemplateReasoner(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend executes one recommendation request and returns up to
// MaxRecommendations scored, reasoned wines ordered descending by score.
func (e *Engine) Recommend(ctx context.Context, req wine.Request) (*wine.Result, error) {
	dish := strings.TrimSpace(req.Dish)
	if dish == "" {
		return nil, ErrEmptyDish
	}

	if len(req.Candidates) == 0 {
		if req.Source == wine.SourceFixedList {
			return nil, ErrEmptyWineList
		}
		return nil, ErrNoCandidates
	}

	pool := FilterByColor(req.Candidates, req.Preference, e.tuning)
	pool = FilterByBudget(pool, req.Budget, req.Source, e.tuning)

	cls := Classify(dish)

	scored := e.scorer.ScoreAll(pool, cls, req.Source)
	selected := SelectDiverse(scored, e.tuning.MaxRecommendations)

	for i := range selected {
		selected[i].Reasoning = e.reason(ctx, dish, cls, selected[i].Candidate)
	}

	return &wine.Result{
		Dish:            dish,
		SessionID:       req.SessionID,
		Recommendations: selected,
	}, nil
}

// reason produces the justification for one selected wine: the enhancer when
// configured and well-behaved, the deterministic template otherwise.
func (e *Engine) reason(ctx context.Context, dish string, cls Classification, w wine.Candidate) string {
	color := wine.ScoringColor(w.Color)
	req := ReasonRequest{
		Dish:   dish,
		Wine:   w,
		Color:  color,
		Family: cls.FamilyForColor(color),
	}

	if e.enhancer != nil {
		if text, err := e.enhancer.Reason(ctx, req); err == nil {
			return text
		} else {
			e.logger.Debug("reasoning enhancer failed, using template",
				zap.String("wine", w.Name),
				zap.Error(err),
			)
			if e.onReasoningFallback != nil {
				e.onReasoningFallback()
			}
		}
	}

	text, err := e.baseline.Reason(ctx, req)
	if err != nil {
		// The template reasoner cannot fail; guard anyway.
		e.logger.Warn("template reasoner failed", zap.Error(err))
		return dish
	}
	return text
}
