package domain

import (
	"time"

	"github.com/google/uuid"
)

type WatchStatus string

const (
	WatchStatusActive  WatchStatus = "ACTIVE"
	WatchStatusBlocked WatchStatus = "BLOCKED"
)

// WatchState accumulates watch time for a (viewer, lesson) pair. The
// total only ever grows; the status moves ACTIVE → BLOCKED once the
// total reaches the lesson's allowance and stays BLOCKED until an
// explicit reset. lastPosition may seek backward freely.
type WatchState struct {
	ID                  uuid.UUID   `json:"id" db:"id"`
	ViewerID            uuid.UUID   `json:"viewer_id" db:"viewer_id"`
	LessonID            uuid.UUID   `json:"lesson_id" db:"lesson_id"`
	TotalWatchSeconds   float64     `json:"total_watch_time_seconds" db:"total_watch_seconds"`
	LastPositionSeconds float64     `json:"last_position_seconds" db:"last_position_seconds"`
	Status              WatchStatus `json:"status" db:"status"`
	SessionStartedAt    time.Time   `json:"session_started_at" db:"session_started_at"`
	LastWatchedAt       time.Time   `json:"last_watched_at" db:"last_watched_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`
}

// EvaluateWatchStatus applies the blocking rule: a blocked state is
// sticky, and an unblocked state blocks once total reaches the cap.
// A cap of zero or less means the lesson carries no limit.
// The SQL in the watch-state repository mirrors this rule so the
// decision is identical whether it runs in-process or in the database.
func EvaluateWatchStatus(prev WatchStatus, totalSeconds, capSeconds float64) WatchStatus {
	if prev == WatchStatusBlocked {
		return WatchStatusBlocked
	}
	if capSeconds > 0 && totalSeconds >= capSeconds {
		return WatchStatusBlocked
	}
	return WatchStatusActive
}
