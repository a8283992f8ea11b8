// Package domain defines the business logic for the mytime service.
package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrValidation marks a rejected edit. The wrapped message is safe to
	// show to the caller.
	ErrValidation = errors.New("validation failed")
	// ErrCategoryNotFound is returned when an event references a category id
	// that does not resolve. Given get-or-create discipline this indicates
	// corrupted data.
	ErrCategoryNotFound = errors.New("category not found")
)

// Repository captures the storage operations the service depends on.
type Repository interface {
	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]Category, error)
	// UpsertCategoryByName returns the category with the given
	// case-insensitive name, creating it when absent. A creation race must
	// resolve to the winner's row, never an error.
	UpsertCategoryByName(ctx context.Context, name, color, description string) (Category, error)
	// ReplaceDayEvents atomically swaps every stored event of the day for
	// the provided set. An empty set clears the day.
	ReplaceDayEvents(ctx context.Context, day string, events []Event) error
	ListEventsForDay(ctx context.Context, day string) ([]Event, error)
	ListAllEvents(ctx context.Context) ([]Event, error)
	// ListDaysWithEvents returns days having at least one event outside the
	// anchor category, ascending.
	ListDaysWithEvents(ctx context.Context, anchorID string) ([]string, error)
}

// Service orchestrates day edits and derived reads.
type Service struct {
	repo       Repository
	anchorName string
	anchorID   string
}

// NewService resolves the wake anchor category, creating it if needed, and
// returns the service bound to it.
func NewService(ctx context.Context, repo Repository, anchorName string) (*Service, error) {
	if strings.TrimSpace(anchorName) == "" {
		anchorName = DefaultAnchorName
	}
	existing, err := repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	anchor, err := repo.UpsertCategoryByName(ctx, anchorName, PaletteColor(len(existing)), "Początek dnia")
	if err != nil {
		return nil, err
	}
	return &Service{repo: repo, anchorName: anchorName, anchorID: anchor.ID}, nil
}

// AnchorID returns the id of the wake anchor category.
func (s *Service) AnchorID() string { return s.anchorID }

// EntryInput is one proposed row of a whole-day edit.
type EntryInput struct {
	Time     string // wall clock "HH:MM"
	Category string
	IsAnchor bool
}

// BootstrapData is the combined initial read for client hydration.
type BootstrapData struct {
	Categories []Category
	Events     []Event
	Totals     []CategoryTotal
	Days       []string
}

// ReplaceDay validates a whole-day edit and atomically replaces the day's
// stored events.
//
// Entries with an empty time or category are dropped silently. Every
// referenced category is resolved via get-or-create before validation, so new
// categories can outlive a later validation failure; creation is idempotent
// and that residue is harmless. Entries are ordered by wake-anchored absolute
// minutes and consecutive non-anchor entries closer than one minute reject
// the whole edit. An empty entry list clears the day.
func (s *Service) ReplaceDay(ctx context.Context, day string, entries []EntryInput) error {
	day, err := ParseDay(day)
	if err != nil {
		return err
	}

	type pending struct {
		name     string
		minutes  int
		absolute int
		isAnchor bool
		category Category
	}

	kept := make([]pending, 0, len(entries))
	for _, in := range entries {
		name := strings.TrimSpace(in.Category)
		if strings.TrimSpace(in.Time) == "" || name == "" {
			continue
		}
		minutes, err := parseClock(in.Time)
		if err != nil {
			return err
		}
		kept = append(kept, pending{
			name:     name,
			minutes:  minutes,
			isAnchor: in.IsAnchor || EqualNames(name, s.anchorName),
		})
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].minutes < kept[j].minutes })

	existing, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	count := len(existing)
	resolved := make(map[string]Category, len(existing))
	for _, cat := range existing {
		resolved[strings.ToLower(strings.TrimSpace(cat.Name))] = cat
	}
	for i := range kept {
		key := strings.ToLower(kept[i].name)
		cat, ok := resolved[key]
		if !ok {
			cat, err = s.repo.UpsertCategoryByName(ctx, kept[i].name, PaletteColor(count), "")
			if err != nil {
				return err
			}
			resolved[key] = cat
			count++
		}
		kept[i].category = cat
	}

	wakeMinutes := -1
	for _, p := range kept {
		if p.isAnchor {
			wakeMinutes = p.minutes
			break
		}
	}
	for i := range kept {
		absolute := kept[i].minutes
		if !kept[i].isAnchor && wakeMinutes >= 0 && absolute < wakeMinutes {
			absolute += minutesPerDay
		}
		kept[i].absolute = absolute
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].absolute < kept[j].absolute })

	// The anchor moves the watermark but is never distance-checked itself.
	previous := -1
	for _, p := range kept {
		if p.isAnchor {
			previous = p.absolute
			continue
		}
		if previous >= 0 && p.absolute-previous < 1 {
			return fmt.Errorf("%w: minimum activity length is 1 minute, check the start times", ErrValidation)
		}
		previous = p.absolute
	}

	midnight, err := time.ParseInLocation(DayFormat, day, time.Local)
	if err != nil {
		return fmt.Errorf("%w: invalid day %q", ErrValidation, day)
	}

	events := make([]Event, 0, len(kept))
	for _, p := range kept {
		events = append(events, Event{
			ID:         uuid.NewString(),
			CategoryID: p.category.ID,
			Day:        day,
			StartedAt:  midnight.Add(time.Duration(p.minutes) * time.Minute),
		})
	}

	return s.repo.ReplaceDayEvents(ctx, day, events)
}

// Categories lists all categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// UpsertCategory gets or creates a category by name. A missing color defaults
// from the palette by current category count.
func (s *Service) UpsertCategory(ctx context.Context, name, color, description string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if color == "" {
		existing, err := s.repo.ListCategories(ctx)
		if err != nil {
			return Category{}, err
		}
		color = PaletteColor(len(existing))
	}
	return s.repo.UpsertCategoryByName(ctx, name, color, description)
}

// DayTimeline derives the display timeline for one day.
func (s *Service) DayTimeline(ctx context.Context, day string) (DayTimeline, error) {
	day, err := ParseDay(day)
	if err != nil {
		return DayTimeline{}, err
	}
	events, err := s.repo.ListEventsForDay(ctx, day)
	if err != nil {
		return DayTimeline{}, err
	}
	categories, err := s.categoriesByID(ctx)
	if err != nil {
		return DayTimeline{}, err
	}
	if err := resolveAll(events, categories); err != nil {
		return DayTimeline{}, err
	}
	return DeriveDayTimeline(day, events, categories, s.anchorID), nil
}

// Totals aggregates time per category across all days.
func (s *Service) Totals(ctx context.Context) ([]CategoryTotal, error) {
	events, err := s.repo.ListAllEvents(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoriesByID(ctx)
	if err != nil {
		return nil, err
	}
	if err := resolveAll(events, categories); err != nil {
		return nil, err
	}
	return TotalsByCategory(events, categories, s.anchorID), nil
}

// Events lists every stored event ordered by (day, instant).
func (s *Service) Events(ctx context.Context) ([]Event, error) {
	return s.repo.ListAllEvents(ctx)
}

// DaysWithEvents lists days having at least one non-anchor event.
func (s *Service) DaysWithEvents(ctx context.Context) ([]string, error) {
	return s.repo.ListDaysWithEvents(ctx, s.anchorID)
}

// Bootstrap assembles the combined initial read: categories, all events,
// aggregate totals and days with data.
func (s *Service) Bootstrap(ctx context.Context) (BootstrapData, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return BootstrapData{}, err
	}
	events, err := s.repo.ListAllEvents(ctx)
	if err != nil {
		return BootstrapData{}, err
	}
	byID := make(map[string]Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}
	if err := resolveAll(events, byID); err != nil {
		return BootstrapData{}, err
	}
	days, err := s.repo.ListDaysWithEvents(ctx, s.anchorID)
	if err != nil {
		return BootstrapData{}, err
	}
	return BootstrapData{
		Categories: categories,
		Events:     events,
		Totals:     TotalsByCategory(events, byID, s.anchorID),
		Days:       days,
	}, nil
}

func (s *Service) categoriesByID(ctx context.Context) (map[string]Category, error) {
	list, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Category, len(list))
	for _, cat := range list {
		byID[cat.ID] = cat
	}
	return byID, nil
}

func resolveAll(events []Event, categories map[string]Category) error {
	for _, ev := range events {
		if _, ok := categories[ev.CategoryID]; !ok {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, ev.CategoryID)
		}
	}
	return nil
}

func parseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: invalid time %q", ErrValidation, value)
	}
	hours, hourErr := strconv.Atoi(parts[0])
	minutes, minuteErr := strconv.Atoi(parts[1])
	if hourErr != nil || minuteErr != nil || hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: invalid time %q", ErrValidation, value)
	}
	return hours*60 + minutes, nil
}
