package cellar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/roles"
	"github.com/sommia/sommelier/pkg/wine"
)

// Sentinel errors returned by the repository.
var (
	ErrNotFound      = errors.New("wine not found")
	ErrInvalidWine   = errors.New("invalid wine")
	ErrAlreadyExists = errors.New("wine already exists")
)

// migrations owns the cellar_wines table.
var migrations = []plugin.Migration{
	{
		Version:     1,
		Description: "create cellar_wines table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS cellar_wines (
					id         TEXT PRIMARY KEY,
					name       TEXT NOT NULL,
					producer   TEXT NOT NULL DEFAULT '',
					region     TEXT NOT NULL DEFAULT '',
					color      TEXT NOT NULL DEFAULT 'unknown',
					vintage    INTEGER NOT NULL DEFAULT 0,
					price      REAL NOT NULL DEFAULT 0,
					quality    INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)
			`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index cellar_wines by color and price",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_cellar_wines_color_price
				ON cellar_wines (color, price)
			`)
			return err
		},
	},
}

// ListOptions controls pagination for list queries.
type ListOptions struct {
	Limit  int // Max results per page (default 50, max 500).
	Offset int
}

// WineFilter narrows List results.
type WineFilter struct {
	Color    wine.Color
	Search   string // Matches name, producer, or region.
	MaxPrice float64
}

// ListResult wraps a paginated result set with a total count.
type ListResult struct {
	Items []wine.Candidate `json:"items"`
	Total int              `json:"total"`
}

func normalizeListOptions(opts ListOptions) ListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Limit > 500 {
		opts.Limit = 500
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

// Repository provides data access to the wine catalog.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository. The cellar_wines table must already
// exist (created by this plugin's migrations).
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// wineColumns is the shared column list for wine queries.
const wineColumns = `id, name, producer, region, color, vintage, price, quality`

func scanWine(row interface{ Scan(...any) error }) (wine.Candidate, error) {
	var c wine.Candidate
	var color string
	err := row.Scan(&c.ID, &c.Name, &c.Producer, &c.Region, &color, &c.Vintage, &c.Price, &c.Quality)
	if err != nil {
		return wine.Candidate{}, err
	}
	c.Color = wine.ParseColor(color)
	return c, nil
}

// Get returns one wine by id.
func (r *Repository) Get(ctx context.Context, id string) (*wine.Candidate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+wineColumns+` FROM cellar_wines WHERE id = ?`, id)
	c, err := scanWine(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get wine %q: %w", id, err)
	}
	return &c, nil
}

// List returns wines matching filter, paginated by opts, ordered by name.
func (r *Repository) List(ctx context.Context, filter WineFilter, opts ListOptions) (*ListResult, error) {
	opts = normalizeListOptions(opts)

	where := "1=1"
	var args []any

	if filter.Color != "" && filter.Color != wine.ColorUnknown {
		where += " AND color = ?"
		args = append(args, string(filter.Color))
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? OR producer LIKE ? OR region LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.MaxPrice > 0 {
		where += " AND price <= ?"
		args = append(args, filter.MaxPrice)
	}

	var total int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cellar_wines WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count wines: %w", err)
	}

	query := "SELECT " + wineColumns + " FROM cellar_wines WHERE " + where +
		" ORDER BY name ASC LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wines: %w", err)
	}
	defer rows.Close()

	result := &ListResult{Items: []wine.Candidate{}}
	for rows.Next() {
		c, err := scanWine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wine: %w", err)
		}
		result.Items = append(result.Items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wines: %w", err)
	}
	result.Total = total
	return result, nil
}

// Candidates returns wines matching the catalog query, ordered by name for
// deterministic downstream scoring.
func (r *Repository) Candidates(ctx context.Context, q roles.CatalogQuery) ([]wine.Candidate, error) {
	where := "1=1"
	var args []any

	if q.MinPrice > 0 {
		where += " AND price >= ?"
		args = append(args, q.MinPrice)
	}
	if q.MaxPrice > 0 {
		where += " AND price <= ?"
		args = append(args, q.MaxPrice)
	}
	if q.Color != "" && q.Color != wine.ColorUnknown {
		where += " AND color = ?"
		args = append(args, string(q.Color))
	}

	query := "SELECT " + wineColumns + " FROM cellar_wines WHERE " + where + " ORDER BY name ASC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []wine.Candidate
	for rows.Next() {
		c, err := scanWine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

// Insert stores a new wine. An empty ID is assigned a fresh UUID. The name
// is required; quality outside [0,100] is rejected.
func (r *Repository) Insert(ctx context.Context, c *wine.Candidate) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidWine)
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("%w: quality %d outside [0,100]", ErrInvalidWine, c.Quality)
	}
	if c.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidWine)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Color == "" {
		c.Color = wine.ColorUnknown
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cellar_wines (id, name, producer, region, color, vintage, price, quality)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Producer, c.Region, string(c.Color), c.Vintage, c.Price, c.Quality,
	)
	if err != nil {
		return fmt.Errorf("insert wine %q: %w", c.Name, err)
	}
	return nil
}

// Delete removes a wine by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cellar_wines WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete wine %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete wine %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of wines in the cellar.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cellar_wines").Scan(&n); err != nil {
		return 0, fmt.Errorf("count wines: %w", err)
	}
	return n, nil
}
