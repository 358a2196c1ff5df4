package visits

import "github.com/haserol/docpanel/internal/models"

// StatusDisplay maps a visit status to its fixed label code and color.
// Unrecognized values render as a generic unknown state instead of crashing.
type StatusDisplay struct {
	Code  string `json:"code"`  // i18n message code
	Color string `json:"color"` // css color token
}

var statusDisplays = map[string]StatusDisplay{
	models.VisitPlanned:    {Code: "visit.planned", Color: "#2563eb"},
	models.VisitCompleted:  {Code: "visit.completed", Color: "#16a34a"},
	models.VisitCancelled:  {Code: "visit.cancelled", Color: "#dc2626"},
	models.VisitInProgress: {Code: "visit.in_progress", Color: "#d97706"},
}

var unknownStatus = StatusDisplay{Code: "visit.unknown", Color: "#6b7280"}

// DisplayFor returns the display mapping for a status.
func DisplayFor(status string) StatusDisplay {
	if d, ok := statusDisplays[status]; ok {
		return d
	}
	return unknownStatus
}

// KnownStatuses lists the closed status set for filter dropdowns.
func KnownStatuses() []string {
	return []string{models.VisitPlanned, models.VisitCompleted, models.VisitCancelled, models.VisitInProgress}
}
