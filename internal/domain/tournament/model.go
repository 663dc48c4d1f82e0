package tournament

import (
	"strings"
	"time"
)

const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Tournament is one event on the schedule. Status and CurrentRound are
// mutated only by the sync pipeline; transitions are forward-only.
type Tournament struct {
	ID           string
	SeasonID     string
	TierName     string
	Name         string
	ProviderID   string
	StartDate    time.Time
	EndDate      time.Time
	Status       string
	CurrentRound int
	CoursePar    int
	LiveSyncedAt *time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusUpcoming
	}
	return status
}

// CanTransitionTo reports whether moving to the target status respects the
// forward-only lifecycle upcoming -> active -> completed.
func (t Tournament) CanTransitionTo(target string) bool {
	from := NormalizeStatus(t.Status)
	to := NormalizeStatus(target)
	switch from {
	case StatusUpcoming:
		return to == StatusActive
	case StatusActive:
		return to == StatusCompleted
	default:
		return false
	}
}

func (t Tournament) IsActive() bool {
	return NormalizeStatus(t.Status) == StatusActive
}

func (t Tournament) IsCompleted() bool {
	return NormalizeStatus(t.Status) == StatusCompleted
}

// PastDue reports whether an upcoming tournament should have started by now.
func (t Tournament) PastDue(now time.Time) bool {
	return NormalizeStatus(t.Status) == StatusUpcoming && !t.StartDate.IsZero() && !now.Before(t.StartDate)
}
