// Package postgres provides pgx-backed persistence for categories and events.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/mytime/internal/domain"
	"example.com/mytime/internal/observability"
)

const uniqueViolation = "23505"

// Repository provides Postgres-backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SeedDefaults inserts the default categories when the table is empty.
func (r *Repository) SeedDefaults(ctx context.Context) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return tx.Commit(ctx)
	}

	const stmt = `INSERT INTO categories (category_id, name, color, description) VALUES ($1,$2,$3,$4)`
	for _, cat := range domain.DefaultCategories() {
		if _, err := tx.Exec(ctx, stmt, uuid.NewString(), cat.Name, cat.Color, cat.Description); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT category_id, name, color, description FROM categories ORDER BY lower(name)`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Category, 0)
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.Description); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// UpsertCategoryByName returns the category matching name case-insensitively,
// creating it when absent. The unique index on lower(name) arbitrates
// concurrent creates: the loser re-reads the winner's row.
func (r *Repository) UpsertCategoryByName(ctx context.Context, name, color, description string) (domain.Category, error) {
	existing, err := r.findByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, err
	}

	cat := domain.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Color:       color,
		Description: description,
	}
	const stmt = `INSERT INTO categories (category_id, name, color, description) VALUES ($1,$2,$3,$4)`
	if _, err := r.pool.Exec(ctx, stmt, cat.ID, cat.Name, cat.Color, cat.Description); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return r.findByName(ctx, name)
		}
		return domain.Category{}, err
	}
	observability.RecordCategoryCreated()
	return cat, nil
}

func (r *Repository) findByName(ctx context.Context, name string) (domain.Category, error) {
	const query = `SELECT category_id, name, color, description FROM categories WHERE lower(name) = lower($1)`

	var cat domain.Category
	err := r.pool.QueryRow(ctx, query, name).Scan(&cat.ID, &cat.Name, &cat.Color, &cat.Description)
	return cat, err
}

// ReplaceDayEvents deletes the day's events and inserts the new set in one
// transaction, so readers never observe a half-replaced day.
func (r *Repository) ReplaceDayEvents(ctx context.Context, day string, events []domain.Event) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE day = $1`, day); err != nil {
		return err
	}

	const stmt = `INSERT INTO events (event_id, category_id, day, started_at) VALUES ($1,$2,$3,$4)`
	for _, ev := range events {
		if _, err := tx.Exec(ctx, stmt, ev.ID, ev.CategoryID, ev.Day, ev.StartedAt); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordDayReplaced(time.Now())
	return nil
}

// ListEventsForDay returns the day's events ordered by instant.
func (r *Repository) ListEventsForDay(ctx context.Context, day string) ([]domain.Event, error) {
	const query = `SELECT event_id, category_id, day, started_at FROM events
        WHERE day = $1 ORDER BY started_at, event_id`
	return r.queryEvents(ctx, query, day)
}

// ListAllEvents returns every event ordered by (day, instant).
func (r *Repository) ListAllEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT event_id, category_id, day, started_at FROM events
        ORDER BY day, started_at, event_id`
	return r.queryEvents(ctx, query)
}

// ListDaysWithEvents returns days holding at least one non-anchor event.
func (r *Repository) ListDaysWithEvents(ctx context.Context, anchorID string) ([]string, error) {
	const query = `SELECT DISTINCT day FROM events WHERE category_id <> $1 ORDER BY day`

	rows, err := r.pool.Query(ctx, query, anchorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]string, 0)
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *Repository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		var ev domain.Event
		if err := rows.Scan(&ev.ID, &ev.CategoryID, &ev.Day, &ev.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
