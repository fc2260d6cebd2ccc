package enrich

import (
	"testing"
	"time"

	"trade-signal-dashboard/internal/types"
)

func TestEnrich(t *testing.T) {
	ist := time.FixedZone("IST", 19800)
	trade := types.Trade{
		Instrument: "INFY",
		EntryTime:  time.Date(2023, time.December, 29, 15, 0, 0, 0, ist),
		ExitTime:   time.Date(2024, time.January, 2, 9, 30, 0, 0, ist),
	}

	got := Enrich(trade)
	if got.Month != "December" || got.Year != 2023 {
		t.Errorf("Expected December 2023 from entry time, got %s %d", got.Month, got.Year)
	}
	if got.Trade != trade {
		t.Error("Expected trade fields to be carried over unchanged")
	}

	again := Enrich(trade)
	if again != got {
		t.Error("Expected identical output for identical input")
	}
}

func TestEnrichUsesEntryLocation(t *testing.T) {
	ist := time.FixedZone("IST", 19800)
	// 00:30 IST on 1 Jan is still 31 Dec in UTC
	trade := types.Trade{EntryTime: time.Date(2024, time.January, 1, 0, 30, 0, 0, ist)}

	got := Enrich(trade)
	if got.Month != "January" || got.Year != 2024 {
		t.Errorf("Expected January 2024, got %s %d", got.Month, got.Year)
	}
}

func TestEnrichAllKeepsOrder(t *testing.T) {
	trades := []types.Trade{
		{Instrument: "B", EntryTime: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{Instrument: "A", EntryTime: time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}
	got := EnrichAll(trades)
	if len(got) != 2 || got[0].Instrument != "B" || got[1].Month != "July" {
		t.Errorf("Unexpected enrichment: %+v", got)
	}
}
