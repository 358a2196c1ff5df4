package visits

import (
	"testing"

	"github.com/haserol/docpanel/internal/models"
)

func TestDisplayForKnownStatuses(t *testing.T) {
	for _, s := range KnownStatuses() {
		d := DisplayFor(s)
		if d.Code == "" || d.Color == "" {
			t.Fatalf("%s: incomplete display %+v", s, d)
		}
		if d == unknownStatus {
			t.Fatalf("%s mapped to unknown", s)
		}
	}
}

func TestDisplayForUnknownStatus(t *testing.T) {
	d := DisplayFor("garbage")
	if d != unknownStatus {
		t.Fatalf("expected unknown display, got %+v", d)
	}
	if DisplayFor("") != unknownStatus {
		t.Fatalf("empty status must render as unknown")
	}
	if DisplayFor(models.VisitPlanned) == unknownStatus {
		t.Fatalf("planned must not be unknown")
	}
}
