package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/mytime/internal/domain"
	"example.com/mytime/internal/persistence/memory"
)

func newTestService(t *testing.T) (*domain.Service, *memory.Repository) {
	t.Helper()
	ctx := context.Background()
	repo := memory.NewRepository()
	require.NoError(t, repo.SeedDefaults(ctx))
	service, err := domain.NewService(ctx, repo, "")
	require.NoError(t, err)
	return service, repo
}

func TestReplaceDayRoundTrip(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	err := service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "08:00", Category: "Obudzenie", IsAnchor: true},
		{Time: "09:00", Category: "Praca"},
		{Time: "17:30", Category: "Sport"},
	})
	require.NoError(t, err)

	timeline, err := service.DayTimeline(ctx, "2025-03-14")
	require.NoError(t, err)
	require.Len(t, timeline.Entries, 3)
	require.Equal(t, 480, timeline.DayStartMinutes)

	var praca, sport domain.TimelineEntry
	for _, e := range timeline.Entries {
		switch e.CategoryName {
		case "Praca":
			praca = e
		case "Sport":
			sport = e
		}
	}
	require.Equal(t, 510, praca.DurationMinutes)
	require.True(t, sport.OpenEnded)

	totals, err := service.Totals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	require.Equal(t, "Praca", totals[0].Name)
	require.Equal(t, 8.5, totals[0].Hours)
	require.Equal(t, "Sport", totals[1].Name)
	require.Equal(t, 1.0, totals[1].Hours)

	days, err := service.DaysWithEvents(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"2025-03-14"}, days)
}

func TestReplaceDayZeroGapFailsAndKeepsStoredEvents(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	require.NoError(t, service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "10:00", Category: "Praca"},
	}))

	err := service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "09:00", Category: "Praca"},
		{Time: "09:00", Category: "Sport"},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Contains(t, err.Error(), "minimum activity length is 1 minute")

	timeline, err := service.DayTimeline(ctx, "2025-03-14")
	require.NoError(t, err)
	require.Len(t, timeline.Entries, 1)
	require.Equal(t, "Praca", timeline.Entries[0].CategoryName)
	require.Equal(t, "10:00", timeline.Entries[0].StartedAt.Format("15:04"))
}

func TestReplaceDayAnchorSetsWatermarkWithoutGapCheck(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	// the anchor shares 09:00 with an activity; only non-anchor pairs are
	// distance-checked
	err := service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "09:00", Category: "Praca"},
		{Time: "09:00", Category: "Obudzenie", IsAnchor: true},
	})
	require.NoError(t, err)
}

func TestReplaceDayDropsBlankEntries(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	err := service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "", Category: "Praca"},
		{Time: "09:00", Category: "  "},
		{Time: "10:00", Category: "Sport"},
	})
	require.NoError(t, err)

	timeline, err := service.DayTimeline(ctx, "2025-03-14")
	require.NoError(t, err)
	require.Len(t, timeline.Entries, 1)
	require.Equal(t, "Sport", timeline.Entries[0].CategoryName)
}

func TestReplaceDayEmptyListClearsDay(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	require.NoError(t, service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "09:00", Category: "Praca"},
	}))
	require.NoError(t, service.ReplaceDay(ctx, "2025-03-14", nil))

	timeline, err := service.DayTimeline(ctx, "2025-03-14")
	require.NoError(t, err)
	require.Empty(t, timeline.Entries)

	days, err := service.DaysWithEvents(ctx)
	require.NoError(t, err)
	require.Empty(t, days)
}

func TestReplaceDayCreatesCategoryWithPaletteColor(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	err := service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "18:00", Category: "Gotowanie"},
	})
	require.NoError(t, err)

	categories, err := service.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 6)

	var created domain.Category
	for _, cat := range categories {
		if cat.Name == "Gotowanie" {
			created = cat
		}
	}
	require.NotEmpty(t, created.ID)
	// five seeded categories existed when this one was created
	require.Equal(t, domain.PaletteColor(5), created.Color)
}

func TestReplaceDayReusesCategoryCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	require.NoError(t, service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "09:00", Category: "nauka"},
	}))

	categories, err := service.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 5, "no duplicate row for a case-insensitive match")

	timeline, err := service.DayTimeline(ctx, "2025-03-14")
	require.NoError(t, err)
	require.Equal(t, "Nauka", timeline.Entries[0].CategoryName)
}

func TestReplaceDayMalformedTimeRejected(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	err := service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "9am", Category: "Praca"},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestReplaceDayInvalidDayRejected(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	err := service.ReplaceDay(ctx, "14-03-2025", nil)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestReplaceDayIdempotentTimeline(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	entries := []domain.EntryInput{
		{Time: "08:00", Category: "Obudzenie", IsAnchor: true},
		{Time: "09:00", Category: "Praca"},
		{Time: "17:30", Category: "Sport"},
	}
	require.NoError(t, service.ReplaceDay(ctx, "2025-03-14", entries))
	first, err := service.DayTimeline(ctx, "2025-03-14")
	require.NoError(t, err)

	reordered := []domain.EntryInput{entries[2], entries[0], entries[1]}
	require.NoError(t, service.ReplaceDay(ctx, "2025-03-14", reordered))
	second, err := service.DayTimeline(ctx, "2025-03-14")
	require.NoError(t, err)

	require.Equal(t, len(first.Entries), len(second.Entries))
	for i := range first.Entries {
		require.Equal(t, first.Entries[i].CategoryName, second.Entries[i].CategoryName)
		require.Equal(t, first.Entries[i].AbsoluteMinutes, second.Entries[i].AbsoluteMinutes)
		require.Equal(t, first.Entries[i].DurationMinutes, second.Entries[i].DurationMinutes)
	}
	require.Equal(t, first.DayStartMinutes, second.DayStartMinutes)
	require.Equal(t, first.DayEndMinutes, second.DayEndMinutes)
}

func TestBootstrapCombinesReads(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	require.NoError(t, service.ReplaceDay(ctx, "2025-03-14", []domain.EntryInput{
		{Time: "08:00", Category: "Obudzenie", IsAnchor: true},
		{Time: "09:00", Category: "Praca"},
	}))

	data, err := service.Bootstrap(ctx)
	require.NoError(t, err)
	require.Len(t, data.Categories, 5)
	require.Len(t, data.Events, 2)
	require.Len(t, data.Totals, 1)
	require.Equal(t, []string{"2025-03-14"}, data.Days)
}

func TestUpsertCategoryRequiresName(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	_, err := service.UpsertCategory(ctx, "  ", "", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}
