// Package memory provides an in-memory store for local development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"example.com/mytime/internal/domain"
)

// Repository keeps categories and events in process memory. It implements the
// same contract as the Postgres store, including atomic whole-day replace.
type Repository struct {
	mu         sync.RWMutex
	categories []domain.Category
	events     map[string][]domain.Event
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{events: make(map[string][]domain.Event)}
}

// SeedDefaults inserts the default categories when the store is empty.
func (r *Repository) SeedDefaults(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.categories) > 0 {
		return nil
	}
	for _, cat := range domain.DefaultCategories() {
		cat.ID = uuid.NewString()
		r.categories = append(r.categories, cat)
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Category, len(r.categories))
	copy(out, r.categories)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// UpsertCategoryByName returns the category matching name case-insensitively,
// creating it when absent. The single lock makes the create race trivial here;
// the Postgres store resolves it via its uniqueness constraint instead.
func (r *Repository) UpsertCategoryByName(ctx context.Context, name, color, description string) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cat := range r.categories {
		if domain.EqualNames(cat.Name, name) {
			return cat, nil
		}
	}
	cat := domain.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Color:       color,
		Description: description,
	}
	r.categories = append(r.categories, cat)
	return cat, nil
}

// ReplaceDayEvents swaps the day's events for the provided set.
func (r *Repository) ReplaceDayEvents(ctx context.Context, day string, events []domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(events) == 0 {
		delete(r.events, day)
		return nil
	}
	stored := make([]domain.Event, len(events))
	copy(stored, events)
	r.events[day] = stored
	return nil
}

// ListEventsForDay returns the day's events ordered by instant.
func (r *Repository) ListEventsForDay(ctx context.Context, day string) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.events[day]
	out := make([]domain.Event, len(stored))
	copy(out, stored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

// ListAllEvents returns every event ordered by (day, instant).
func (r *Repository) ListAllEvents(ctx context.Context) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Event, 0)
	for _, stored := range r.events {
		out = append(out, stored...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

// ListDaysWithEvents returns days holding at least one non-anchor event.
func (r *Repository) ListDaysWithEvents(ctx context.Context, anchorID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	days := make([]string, 0, len(r.events))
	for day, stored := range r.events {
		for _, ev := range stored {
			if ev.CategoryID != anchorID {
				days = append(days, day)
				break
			}
		}
	}
	sort.Strings(days)
	return days, nil
}
