package pairing

import (
	"context"
	"strings"
	"testing"

	"github.com/sommia/sommelier/pkg/llm"
	"github.com/sommia/sommelier/pkg/wine"
)

func TestTemplateReasonerMatchedFamily(t *testing.T) {
	r := NewTemplateReasoner()

	got, err := r.Reason(context.Background(), ReasonRequest{
		Dish:   "entrecôte grillée",
		Wine:   wine.Candidate{Name: "Château Margaux", Region: "Bordeaux"},
		Color:  wine.ColorRed,
		Family: FamilyRedMeat,
	})
	if err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if !strings.Contains(got, "accord idéal") {
		t.Errorf("matched family should use the ideal-pairing phrasing, got %q", got)
	}
	if !strings.Contains(got, "entrecôte grillée") {
		t.Errorf("reasoning must cite the dish verbatim, got %q", got)
	}
	if !strings.Contains(got, "Château Margaux (Bordeaux)") {
		t.Errorf("reasoning should name the wine with its region, got %q", got)
	}
}

func TestTemplateReasonerGenericFallback(t *testing.T) {
	r := NewTemplateReasoner()

	// A red on a fish dish: no family classically recommends red here.
	got, err := r.Reason(context.Background(), ReasonRequest{
		Dish:   "saumon grillé",
		Wine:   wine.Candidate{Name: "Maison Rouge"},
		Color:  wine.ColorRed,
		Family: FamilyNone,
	})
	if err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if !strings.Contains(got, "accompagnera agréablement") {
		t.Errorf("generic reasoning expected, got %q", got)
	}
	if strings.Contains(got, "accord idéal") {
		t.Errorf("generic reasoning must not claim an ideal pairing, got %q", got)
	}
}

func TestTemplateReasonerDeterministic(t *testing.T) {
	r := NewTemplateReasoner()
	req := ReasonRequest{
		Dish:   "plateau de fromages",
		Wine:   wine.Candidate{Name: "Vieux Rouge"},
		Color:  wine.ColorRed,
		Family: FamilyCheese,
	}

	first, _ := r.Reason(context.Background(), req)
	for i := 0; i < 5; i++ {
		again, _ := r.Reason(context.Background(), req)
		if again != first {
			t.Fatalf("template output changed between calls: %q vs %q", first, again)
		}
	}
}

func TestValidateReasoning(t *testing.T) {
	tests := []struct {
		name    string
		content string
		dish    string
		wantErr bool
	}{
		{"valid", "Ce vin sublime le saumon grillé par sa fraîcheur.", "saumon grillé", false},
		{"case-insensitive dish", "Un accord parfait avec le Saumon Grillé.", "saumon grillé", false},
		{"empty", "   ", "saumon grillé", true},
		{"missing dish", "Ce vin est excellent.", "saumon grillé", true},
		{"code fence", "```\nsaumon grillé\n```", "saumon grillé", true},
		{"too long", strings.Repeat("a", 390) + " saumon grillé", "saumon grillé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateReasoning(tt.content, tt.dish)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateReasoning(%q) error = %v, wantErr %v", tt.content, err, tt.wantErr)
			}
		})
	}
}

// scriptedProvider returns canned responses or a fixed error.
type scriptedProvider struct {
	content string
	err     error
	calls   int
}

func (p *scriptedProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (*llm.Response, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.content}, nil
}

func (p *scriptedProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (*llm.Response, error) {
	return p.Generate(context.Background(), "")
}

func (p *scriptedProvider) Name() string { return "scripted" }

func TestLLMReasonerAcceptsValidOutput(t *testing.T) {
	p := &scriptedProvider{content: "Sa minéralité répond parfaitement au saumon grillé."}
	r := NewLLMReasoner(p, 0)

	got, err := r.Reason(context.Background(), ReasonRequest{
		Dish: "saumon grillé",
		Wine: wine.Candidate{Name: "Chablis", Region: "Bourgogne", Vintage: 2021},
	})
	if err != nil {
		t.Fatalf("Reason: %v", err)
	}
	if got != p.content {
		t.Errorf("got %q, want provider output unchanged", got)
	}
}

func TestLLMReasonerRejectsInvalidOutput(t *testing.T) {
	p := &scriptedProvider{content: "I cannot help with that."}
	r := NewLLMReasoner(p, 0)

	if _, err := r.Reason(context.Background(), ReasonRequest{
		Dish: "saumon grillé",
		Wine: wine.Candidate{Name: "Chablis"},
	}); err == nil {
		t.Error("output without the dish should be rejected")
	}
}

func TestLLMReasonerPropagatesProviderError(t *testing.T) {
	p := &scriptedProvider{err: llm.NewProviderError(llm.ErrCodeTimeout, "deadline exceeded", nil)}
	r := NewLLMReasoner(p, 0)

	_, err := r.Reason(context.Background(), ReasonRequest{
		Dish: "saumon grillé",
		Wine: wine.Candidate{Name: "Chablis"},
	})
	if err == nil {
		t.Fatal("provider error should propagate")
	}
	if !llm.IsTimeout(err) {
		t.Errorf("timeout classification lost: %v", err)
	}
}
