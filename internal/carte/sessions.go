package carte

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/wine"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is a saved restaurant wine list. Recommendations can reference it
// by id instead of resending the list.
type Session struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	Wines     []wine.Candidate `json:"wines"`
}

// migrations own the carte_sessions and carte_session_wines tables.
var migrations = []plugin.Migration{
	{
		Version:     1,
		Description: "create carte session tables",
		Up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE IF NOT EXISTS carte_sessions (
					id         TEXT PRIMARY KEY,
					name       TEXT NOT NULL DEFAULT '',
					created_at DATETIME NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS carte_session_wines (
					session_id   TEXT    NOT NULL REFERENCES carte_sessions(id) ON DELETE CASCADE,
					position     INTEGER NOT NULL,
					name         TEXT    NOT NULL,
					producer     TEXT    NOT NULL DEFAULT '',
					region       TEXT    NOT NULL DEFAULT '',
					color        TEXT    NOT NULL DEFAULT 'unknown',
					vintage      INTEGER NOT NULL DEFAULT 0,
					price_bottle REAL    NOT NULL DEFAULT 0,
					price_glass  REAL    NOT NULL DEFAULT 0,
					quality      INTEGER NOT NULL DEFAULT 0,
					PRIMARY KEY (session_id, position)
				)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// SessionRepository persists restaurant wine lists.
type SessionRepository struct {
	store plugin.Store
	now   func() time.Time
}

// NewSessionRepository creates a repository. now defaults to time.Now and
// is injectable for tests.
func NewSessionRepository(store plugin.Store, now func() time.Time) *SessionRepository {
	if now == nil {
		now = time.Now
	}
	return &SessionRepository{store: store, now: now}
}

// Insert stores a new session with its wine list and returns it with an
// assigned id. The list order is preserved.
func (r *SessionRepository) Insert(ctx context.Context, name string, wines []wine.Candidate) (*Session, error) {
	s := &Session{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: r.now().UTC(),
		Wines:     make([]wine.Candidate, len(wines)),
	}
	// Session wines get positional ids; any caller-provided id is replaced.
	for i, c := range wines {
		c.ID = fmt.Sprintf("%s/%d", s.ID, i)
		s.Wines[i] = c
	}

	err := r.store.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO carte_sessions (id, name, created_at) VALUES (?, ?, ?)",
			s.ID, s.Name, s.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		for i, c := range wines {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO carte_session_wines
					(session_id, position, name, producer, region, color, vintage, price_bottle, price_glass, quality)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.ID, i, c.Name, c.Producer, c.Region, string(c.Color), c.Vintage,
				c.PriceBottle, c.PriceGlass, c.Quality,
			); err != nil {
				return fmt.Errorf("insert session wine %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Get loads a session and its wine list in original order.
func (r *SessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	s := &Session{ID: id}

	err := r.store.DB().QueryRowContext(ctx,
		"SELECT name, created_at FROM carte_sessions WHERE id = ?", id,
	).Scan(&s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session %q: %w", id, err)
	}

	rows, err := r.store.DB().QueryContext(ctx, `
		SELECT position, name, producer, region, color, vintage, price_bottle, price_glass, quality
		FROM carte_session_wines WHERE session_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("get session wines %q: %w", id, err)
	}
	defer rows.Close()

	s.Wines = []wine.Candidate{}
	for rows.Next() {
		var c wine.Candidate
		var position int
		var color string
		if err := rows.Scan(&position, &c.Name, &c.Producer, &c.Region, &color,
			&c.Vintage, &c.PriceBottle, &c.PriceGlass, &c.Quality); err != nil {
			return nil, fmt.Errorf("scan session wine: %w", err)
		}
		c.ID = fmt.Sprintf("%s/%d", id, position)
		c.Color = wine.ParseColor(color)
		s.Wines = append(s.Wines, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session wines: %w", err)
	}
	return s, nil
}
