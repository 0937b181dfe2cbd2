package pairing

import (
	"strings"

	"github.com/sommia/sommelier/pkg/wine"
)

// Family is a dish keyword family biasing pairing scores.
type Family string

const (
	FamilyRedMeat  Family = "red_meat"
	FamilyFish     Family = "fish"
	FamilyPoultry  Family = "poultry"
	FamilyCheese   Family = "cheese"
	FamilySalad    Family = "salad"
	FamilyAperitif Family = "aperitif"
	FamilyNone     Family = ""
)

// familyOrder fixes the precedence used when several families match.
var familyOrder = []Family{
	FamilyRedMeat, FamilyFish, FamilyPoultry,
	FamilyCheese, FamilySalad, FamilyAperitif,
}

// familyKeywords are matched as case-insensitive substrings of the lowered
// dish description. French-first, with ASCII fallbacks for unaccented input;
// non-exhaustive by design.
var familyKeywords = map[Family][]string{
	FamilyRedMeat: {
		"viande", "bœuf", "boeuf", "agneau", "canard",
		"entrecôte", "entrecote", "magret", "steak", "gibier",
	},
	FamilyFish: {
		"poisson", "saumon", "sole", "bar", "cabillaud",
		"fruits de mer", "huître", "huitre", "crevette",
	},
	FamilyPoultry: {
		"volaille", "poulet", "pintade", "risotto", "pâtes", "pates",
	},
	FamilyCheese: {
		"fromage", "raclette", "tartiflette",
	},
	FamilySalad: {
		"salade", "légume", "legume", "charcuterie", "grillé", "grille",
	},
	FamilyAperitif: {
		"apéritif", "aperitif", "caviar", "dessert", "chocolat",
	},
}

// primaryColor maps each family to the color classically recommended for it.
var primaryColor = map[Family]wine.Color{
	FamilyRedMeat:  wine.ColorRed,
	FamilyFish:     wine.ColorWhite,
	FamilyPoultry:  wine.ColorWhite,
	FamilyCheese:   wine.ColorRed,
	FamilySalad:    wine.ColorRose,
	FamilyAperitif: wine.ColorSparkling,
}

// secondaryColor maps each family to an acceptable looser match.
var secondaryColor = map[Family]wine.Color{
	FamilyFish:     wine.ColorSparkling,
	FamilyPoultry:  wine.ColorRed,
	FamilyCheese:   wine.ColorWhite,
	FamilySalad:    wine.ColorWhite,
	FamilyAperitif: wine.ColorRose,
}

// Classification is the outcome of the heuristic dish classifier.
type Classification struct {
	// Normalized is the lowercased, trimmed dish description.
	Normalized string
	// Families holds every matched keyword family, in precedence order.
	Families []Family
}

// Classify inspects a dish description for keyword families. An empty match
// set is not an error; scoring falls back to the neutral base value and the
// generic reasoning template.
func Classify(dish string) Classification {
	normalized := strings.ToLower(strings.TrimSpace(dish))

	var matched []Family
	for _, family := range familyOrder {
		for _, kw := range familyKeywords[family] {
			if strings.Contains(normalized, kw) {
				matched = append(matched, family)
				break
			}
		}
	}

	return Classification{Normalized: normalized, Families: matched}
}

// Matched reports whether family is among the matched families.
func (c Classification) Matched(family Family) bool {
	for _, f := range c.Families {
		if f == family {
			return true
		}
	}
	return false
}

// FamilyForColor returns the first matched family whose classic
// recommendation is the given color, or FamilyNone. The reasoning generator
// uses this to pick between a matched template and the generic one.
func (c Classification) FamilyForColor(color wine.Color) Family {
	for _, f := range c.Families {
		if primaryColor[f] == color {
			return f
		}
	}
	return FamilyNone
}
