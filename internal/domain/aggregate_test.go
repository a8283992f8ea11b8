package domain

import (
	"testing"
	"time"
)

func TestTotalsByCategoryExcludesAnchor(t *testing.T) {
	events := []Event{
		testEvent("e-wake", anchorCatID, 8, 0),
		testEvent("e-praca", pracaCatID, 9, 0),
	}
	totals := TotalsByCategory(events, testCategories(), anchorCatID)

	for _, total := range totals {
		if total.Name == "Obudzenie" {
			t.Fatal("anchor category must never appear in totals")
		}
	}
	if len(totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(totals))
	}
}

func TestTotalsByCategoryNextInstantDelta(t *testing.T) {
	events := []Event{
		testEvent("e-wake", anchorCatID, 8, 0),
		testEvent("e-praca", pracaCatID, 9, 0),
		testEvent("e-sport", sportCatID, 17, 30),
	}
	totals := TotalsByCategory(events, testCategories(), anchorCatID)

	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	// first appearance order: Praca runs until Sport starts (8.5h), Sport
	// has no successor and falls back to a flat hour
	if totals[0].Name != "Praca" || totals[0].Hours != 8.5 {
		t.Fatalf("expected Praca 8.5h, got %s %v", totals[0].Name, totals[0].Hours)
	}
	if totals[1].Name != "Sport" || totals[1].Hours != 1.0 {
		t.Fatalf("expected Sport 1.0h fallback, got %s %v", totals[1].Name, totals[1].Hours)
	}
}

func TestTotalsByCategoryNoCrossMidnightShift(t *testing.T) {
	// unlike the timeline derivation, totals order by plain instant: the
	// 01:00 activity comes first and runs until 09:00
	events := []Event{
		testEvent("e-praca", pracaCatID, 1, 0),
		testEvent("e-sport", sportCatID, 9, 0),
		testEvent("e-wake", anchorCatID, 8, 0),
	}
	totals := TotalsByCategory(events, testCategories(), anchorCatID)

	byName := map[string]float64{}
	for _, total := range totals {
		byName[total.Name] = total.Hours
	}
	if byName["Praca"] != 8.0 {
		t.Fatalf("expected Praca 8.0h (01:00 to 09:00), got %v", byName["Praca"])
	}
	if byName["Sport"] != 1.0 {
		t.Fatalf("expected Sport 1.0h fallback, got %v", byName["Sport"])
	}
}

func TestTotalsByCategorySumsAcrossDays(t *testing.T) {
	dayTwoPraca := Event{
		ID:         "e-praca-2",
		CategoryID: pracaCatID,
		Day:        "2025-03-15",
		StartedAt:  time.Date(2025, time.March, 15, 9, 0, 0, 0, time.Local),
	}
	dayTwoSport := Event{
		ID:         "e-sport-2",
		CategoryID: sportCatID,
		Day:        "2025-03-15",
		StartedAt:  time.Date(2025, time.March, 15, 10, 30, 0, 0, time.Local),
	}
	events := []Event{
		testEvent("e-praca", pracaCatID, 9, 0),
		testEvent("e-sport", sportCatID, 10, 0),
		dayTwoPraca,
		dayTwoSport,
	}
	totals := TotalsByCategory(events, testCategories(), anchorCatID)

	byName := map[string]float64{}
	for _, total := range totals {
		byName[total.Name] = total.Hours
	}
	// 60min + 90min = 2.5h; the last event of each day counts a flat hour
	if byName["Praca"] != 2.5 {
		t.Fatalf("expected Praca 2.5h, got %v", byName["Praca"])
	}
	if byName["Sport"] != 2.0 {
		t.Fatalf("expected Sport 2.0h, got %v", byName["Sport"])
	}
}

func TestTotalsByCategoryRoundsToOneDecimal(t *testing.T) {
	events := []Event{
		testEvent("e-praca", pracaCatID, 9, 0),
		testEvent("e-sport", sportCatID, 10, 3), // 63 minutes = 1.05h
	}
	totals := TotalsByCategory(events, testCategories(), anchorCatID)

	if totals[0].Hours != 1.1 {
		t.Fatalf("expected half rounded away from zero to 1.1, got %v", totals[0].Hours)
	}
}

func TestTotalsByCategoryEmptyInput(t *testing.T) {
	totals := TotalsByCategory(nil, testCategories(), anchorCatID)
	if len(totals) != 0 {
		t.Fatalf("expected no totals, got %d", len(totals))
	}
}
