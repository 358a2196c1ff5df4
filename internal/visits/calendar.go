package visits

import (
	"time"

	"github.com/haserol/docpanel/internal/models"
)

// Day is one cell of the month grid. Nil cells pad the grid before the 1st
// and after the last day so every row is a full Monday-first week.
type Day struct {
	Date   time.Time      `json:"date"`
	Visits []models.Visit `json:"visits"`
}

// MonthGrid returns the calendar cells for the month containing t. Length is
// always a multiple of 7; leading nils equal the zero-based Monday-first
// weekday of the 1st.
func MonthGrid(t time.Time) []*Day {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	lead := (int(first.Weekday()) + 6) % 7 // Monday=0
	daysIn := first.AddDate(0, 1, -1).Day()

	grid := make([]*Day, 0, 42)
	for i := 0; i < lead; i++ {
		grid = append(grid, nil)
	}
	for d := 1; d <= daysIn; d++ {
		grid = append(grid, &Day{Date: time.Date(t.Year(), t.Month(), d, 0, 0, 0, 0, t.Location())})
	}
	for len(grid)%7 != 0 {
		grid = append(grid, nil)
	}
	return grid
}

// ForDay filters already-loaded visits down to those on the same calendar
// day, ignoring time-of-day. Pure in-memory; no query.
func ForDay(visits []models.Visit, day time.Time) []models.Visit {
	y, m, d := day.Date()
	var out []models.Visit
	for _, v := range visits {
		vy, vm, vd := v.VisitDate.Date()
		if vy == y && vm == m && vd == d {
			out = append(out, v)
		}
	}
	return out
}

// Fill buckets the month's visits into the grid cells.
func Fill(grid []*Day, visits []models.Visit) {
	for _, cell := range grid {
		if cell == nil {
			continue
		}
		cell.Visits = ForDay(visits, cell.Date)
	}
}

// MonthRange returns the [start, end) bounds of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
