package visits

import (
	"testing"
	"time"

	"github.com/haserol/docpanel/internal/models"
)

func TestMonthGridShape(t *testing.T) {
	cases := []struct {
		month  time.Time
		lead   int // nil cells before the 1st (Monday-first)
		days   int
	}{
		// June 2025 starts on a Sunday
		{time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), 6, 30},
		// September 2025 starts on a Monday
		{time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), 0, 30},
		// February 2024 is a leap month starting on a Thursday
		{time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), 3, 29},
		// February 2026 starts on a Sunday
		{time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 6, 28},
	}
	for _, c := range cases {
		grid := MonthGrid(c.month)
		if len(grid)%7 != 0 {
			t.Fatalf("%v: grid length %d is not a multiple of 7", c.month.Month(), len(grid))
		}
		lead := 0
		for _, cell := range grid {
			if cell != nil {
				break
			}
			lead++
		}
		if lead != c.lead {
			t.Fatalf("%v: expected %d leading nils, got %d", c.month.Month(), c.lead, lead)
		}
		days := 0
		for _, cell := range grid {
			if cell != nil {
				days++
			}
		}
		if days != c.days {
			t.Fatalf("%v: expected %d day cells, got %d", c.month.Month(), c.days, days)
		}
		// first real cell must be the 1st
		if grid[lead].Date.Day() != 1 {
			t.Fatalf("%v: first cell is day %d, not 1", c.month.Month(), grid[lead].Date.Day())
		}
	}
}

func TestForDayIgnoresTimeOfDay(t *testing.T) {
	day := time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)
	vs := []models.Visit{
		{ID: 1, VisitDate: time.Date(2025, time.May, 5, 9, 30, 0, 0, time.UTC)},
		{ID: 2, VisitDate: time.Date(2025, time.May, 5, 23, 59, 59, 0, time.UTC)},
		{ID: 3, VisitDate: time.Date(2025, time.May, 6, 0, 0, 0, 0, time.UTC)},
	}
	got := ForDay(vs, day)
	if len(got) != 2 {
		t.Fatalf("expected 2 visits on the day, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("wrong visits selected: %v %v", got[0].ID, got[1].ID)
	}
}

func TestFillBucketsVisits(t *testing.T) {
	month := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	grid := MonthGrid(month)
	vs := []models.Visit{
		{ID: 1, VisitDate: time.Date(2025, time.May, 5, 10, 0, 0, 0, time.UTC)},
		{ID: 2, VisitDate: time.Date(2025, time.May, 5, 14, 0, 0, 0, time.UTC)},
		{ID: 3, VisitDate: time.Date(2025, time.May, 31, 8, 0, 0, 0, time.UTC)},
	}
	Fill(grid, vs)
	var fifth, last *Day
	for _, cell := range grid {
		if cell == nil {
			continue
		}
		switch cell.Date.Day() {
		case 5:
			fifth = cell
		case 31:
			last = cell
		}
	}
	if fifth == nil || len(fifth.Visits) != 2 {
		t.Fatalf("expected 2 visits on the 5th")
	}
	if last == nil || len(last.Visits) != 1 {
		t.Fatalf("expected 1 visit on the 31st")
	}
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(time.Date(2025, time.December, 20, 15, 0, 0, 0, time.UTC))
	if !from.Equal(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("wrong start: %v", from)
	}
	if !to.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("wrong end: %v", to)
	}
}
