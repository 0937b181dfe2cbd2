package cellar

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/server"
	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/wine"
)

// Routes implements plugin.HTTPProvider. Mounted under /api/v1/cellar.
func (p *Plugin) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodGet, Path: "/wines", Handler: p.handleListWines},
		{Method: http.MethodPost, Path: "/wines", Handler: p.handleCreateWine},
		{Method: http.MethodGet, Path: "/wines/export", Handler: p.handleExportCSV},
		{Method: http.MethodPost, Path: "/wines/import", Handler: p.handleImportCSV},
		{Method: http.MethodGet, Path: "/wines/{id}", Handler: p.handleGetWine},
		{Method: http.MethodDelete, Path: "/wines/{id}", Handler: p.handleDeleteWine},
	}
}

// handleListWines returns the paginated wine catalog.
func (p *Plugin) handleListWines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter WineFilter
	if c := q.Get("color"); c != "" {
		filter.Color = wine.ParseColor(c)
	}
	filter.Search = q.Get("search")
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			server.BadRequest(w, "max_price must be a non-negative number", r.URL.Path)
			return
		}
		filter.MaxPrice = price
	}

	var opts ListOptions
	if v := q.Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}

	result, err := p.repo.List(r.Context(), filter, opts)
	if err != nil {
		p.logger.Error("list wines failed", zap.Error(err))
		server.InternalError(w, "failed to list wines", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCreateWine stores a new wine and publishes cellar.wine.added.
func (p *Plugin) handleCreateWine(w http.ResponseWriter, r *http.Request) {
	var c wine.Candidate
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		server.BadRequest(w, "invalid JSON body: "+err.Error(), r.URL.Path)
		return
	}
	c.Color = wine.ParseColor(string(c.Color))

	if err := p.repo.Insert(r.Context(), &c); err != nil {
		if errors.Is(err, ErrInvalidWine) {
			server.BadRequest(w, err.Error(), r.URL.Path)
			return
		}
		p.logger.Error("insert wine failed", zap.Error(err))
		server.InternalError(w, "failed to store wine", r.URL.Path)
		return
	}

	p.publishWineAdded(r.Context(), c)
	writeJSON(w, http.StatusCreated, c)
}

// handleGetWine returns one wine by id.
func (p *Plugin) handleGetWine(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c, err := p.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, fmt.Sprintf("wine %q not found", id), r.URL.Path)
			return
		}
		p.logger.Error("get wine failed", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to load wine", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// handleDeleteWine removes one wine by id.
func (p *Plugin) handleDeleteWine(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := p.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, fmt.Sprintf("wine %q not found", id), r.URL.Path)
			return
		}
		p.logger.Error("delete wine failed", zap.String("id", id), zap.Error(err))
		server.InternalError(w, "failed to delete wine", r.URL.Path)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleExportCSV streams the catalog as CSV.
func (p *Plugin) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	result, err := p.repo.List(r.Context(), WineFilter{}, ListOptions{Limit: 500})
	if err != nil {
		p.logger.Error("export wines failed", zap.Error(err))
		server.InternalError(w, "failed to export wines", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cellar.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeaders())
	for _, c := range result.Items {
		_ = cw.Write(wineToCSVRow(c))
	}
	cw.Flush()
}

// ImportReport summarizes a CSV import.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// handleImportCSV ingests a CSV body in the export format. Rows that fail
// to parse or validate are skipped and reported, not fatal.
func (p *Plugin) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	reader := csv.NewReader(r.Body)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		server.BadRequest(w, "invalid CSV: "+err.Error(), r.URL.Path)
		return
	}
	if len(records) == 0 {
		server.BadRequest(w, "empty CSV body", r.URL.Path)
		return
	}

	// Skip the header row when present.
	rows := records
	if len(records[0]) > 0 && records[0][0] == "id" {
		rows = records[1:]
	}

	report := ImportReport{}
	for i, row := range rows {
		c, err := csvRowToWine(row)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if err := p.repo.Insert(r.Context(), &c); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		p.publishWineAdded(r.Context(), c)
		report.Imported++
	}

	p.logger.Info("cellar import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
	writeJSON(w, http.StatusOK, report)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
