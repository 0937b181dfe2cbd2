package pairing

import (
	"context"
	"fmt"

	"github.com/sommia/sommelier/pkg/wine"
)

// ReasonRequest describes one selected wine to justify.
type ReasonRequest struct {
	// Dish is the user's dish description, echoed verbatim in the output.
	Dish string
	// Wine is the selected candidate.
	Wine wine.Candidate
	// Color is the wine's scoring color.
	Color wine.Color
	// Family is the matched keyword family whose classic recommendation is
	// Color, or FamilyNone when the wine pairs only generically.
	Family Family
}

// ReasoningProvider produces the natural-language pairing justification.
// Implementations must return non-empty text referencing the dish; the
// template provider is the required deterministic baseline, the LLM-backed
// one an optional enhancement.
type ReasoningProvider interface {
	Reason(ctx context.Context, req ReasonRequest) (string, error)
}

// Compile-time interface guard.
var _ ReasoningProvider = (*TemplateReasoner)(nil)

// TemplateReasoner renders deterministic French reasoning sentences from a
// fixed table keyed by (color, family). It never fails.
type TemplateReasoner struct{}

// NewTemplateReasoner returns the deterministic reasoner.
func NewTemplateReasoner() *TemplateReasoner {
	return &TemplateReasoner{}
}

// matchedTemplates interpolate (wine label, dish). Keyed by the family the
// wine's color classically serves; only reachable combinations are listed.
var matchedTemplates = map[Family]string{
	FamilyRedMeat:  "%s est un accord idéal avec %s : sa structure tannique soutient les viandes rouges.",
	FamilyFish:     "%s est un accord idéal avec %s : sa fraîcheur et sa minéralité soulignent les produits de la mer.",
	FamilyPoultry:  "%s est un accord idéal avec %s : sa rondeur accompagne les volailles et les plats crémeux.",
	FamilyCheese:   "%s est un accord idéal avec %s : son fruité équilibre le caractère des fromages.",
	FamilySalad:    "%s est un accord idéal avec %s : sa vivacité se prête aux plats frais et grillés.",
	FamilyAperitif: "%s est un accord idéal avec %s : ses bulles apportent la touche festive attendue.",
}

// genericTemplate is the fallback when no matched family recommends the
// wine's color. Deliberately softer phrasing: the wine accompanies the dish
// rather than ideally pairing with it.
const genericTemplate = "%s accompagnera agréablement %s."

// Reason renders the template for req. The dish description appears verbatim
// in every rendered sentence.
func (r *TemplateReasoner) Reason(_ context.Context, req ReasonRequest) (string, error) {
	label := wineLabel(req.Wine)

	if tpl, ok := matchedTemplates[req.Family]; ok && req.Family != FamilyNone {
		return fmt.Sprintf(tpl, label, req.Dish), nil
	}
	return fmt.Sprintf(genericTemplate, label, req.Dish), nil
}

// wineLabel formats the wine's display name, with region when known.
func wineLabel(w wine.Candidate) string {
	if w.Region != "" {
		return fmt.Sprintf("%s (%s)", w.Name, w.Region)
	}
	return w.Name
}
