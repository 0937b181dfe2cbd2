package testutil

import (
	"github.com/google/uuid"

	"github.com/sommia/sommelier/pkg/wine"
)

// NewWine returns a wine candidate with sensible defaults, suitable for
// test fixtures. Override individual fields via options or after creation.
func NewWine(opts ...func(*wine.Candidate)) wine.Candidate {
	c := wine.Candidate{
		ID:       uuid.New().String(),
		Name:     "Domaine de Test",
		Producer: "Cave Testard",
		Region:   "Loire",
		Color:    wine.ColorRed,
		Vintage:  2020,
		Price:    18,
		Quality:  75,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithName overrides the wine name.
func WithName(name string) func(*wine.Candidate) {
	return func(c *wine.Candidate) { c.Name = name }
}

// WithColor overrides the wine color.
func WithColor(color wine.Color) func(*wine.Candidate) {
	return func(c *wine.Candidate) { c.Color = color }
}

// WithPrice overrides the catalog price.
func WithPrice(price float64) func(*wine.Candidate) {
	return func(c *wine.Candidate) { c.Price = price }
}

// WithBottlePrice sets the fixed-list bottle price.
func WithBottlePrice(price float64) func(*wine.Candidate) {
	return func(c *wine.Candidate) { c.PriceBottle = price }
}

// WithGlassPrice sets the fixed-list glass price.
func WithGlassPrice(price float64) func(*wine.Candidate) {
	return func(c *wine.Candidate) { c.PriceGlass = price }
}

// WithQuality overrides the quality rating.
func WithQuality(q int) func(*wine.Candidate) {
	return func(c *wine.Candidate) { c.Quality = q }
}

// WithRegion overrides the region.
func WithRegion(region string) func(*wine.Candidate) {
	return func(c *wine.Candidate) { c.Region = region }
}

// WithVintage overrides the vintage year.
func WithVintage(year int) func(*wine.Candidate) {
	return func(c *wine.Candidate) { c.Vintage = year }
}
