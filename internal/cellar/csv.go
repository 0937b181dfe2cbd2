package cellar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sommia/sommelier/pkg/wine"
)

// csvHeaders returns the CSV column headers for cellar export.
func csvHeaders() []string {
	return []string{"id", "name", "producer", "region", "color", "vintage", "price", "quality"}
}

// csvColumnCount is the number of columns in the CSV format.
const csvColumnCount = 8

// wineToCSVRow converts a wine to a CSV row (matching csvHeaders order).
func wineToCSVRow(c wine.Candidate) []string {
	return []string{
		c.ID,
		c.Name,
		c.Producer,
		c.Region,
		string(c.Color),
		strconv.Itoa(c.Vintage),
		strconv.FormatFloat(c.Price, 'f', -1, 64),
		strconv.Itoa(c.Quality),
	}
}

// csvRowToWine parses a CSV row into a wine candidate.
func csvRowToWine(row []string) (wine.Candidate, error) {
	if len(row) < csvColumnCount {
		return wine.Candidate{}, fmt.Errorf("expected %d columns, got %d", csvColumnCount, len(row))
	}

	r := row[:csvColumnCount]

	c := wine.Candidate{
		ID:       strings.TrimSpace(r[0]),
		Name:     strings.TrimSpace(r[1]),
		Producer: strings.TrimSpace(r[2]),
		Region:   strings.TrimSpace(r[3]),
		Color:    wine.ParseColor(r[4]),
	}

	if v := strings.TrimSpace(r[5]); v != "" {
		vintage, err := strconv.Atoi(v)
		if err != nil {
			return wine.Candidate{}, fmt.Errorf("invalid vintage %q: %w", v, err)
		}
		c.Vintage = vintage
	}
	if v := strings.TrimSpace(r[6]); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return wine.Candidate{}, fmt.Errorf("invalid price %q: %w", v, err)
		}
		c.Price = price
	}
	if v := strings.TrimSpace(r[7]); v != "" {
		quality, err := strconv.Atoi(v)
		if err != nil {
			return wine.Candidate{}, fmt.Errorf("invalid quality %q: %w", v, err)
		}
		c.Quality = quality
	}

	return c, nil
}
