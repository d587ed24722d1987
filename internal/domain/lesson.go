package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lesson carries the metadata the watch-time tracker needs: the run
// length and the multiple of it a viewer may accumulate before being
// blocked (2.0 means "up to twice the run length").
type Lesson struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	ClassID            uuid.UUID `json:"class_id" db:"class_id"`
	Title              string    `json:"title" db:"title"`
	DurationSeconds    float64   `json:"duration_seconds" db:"duration_seconds"`
	MaxWatchMultiplier float64   `json:"max_watch_multiplier" db:"max_watch_multiplier"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// MaxWatchSeconds is the watch-time allowance for this lesson.
func (l *Lesson) MaxWatchSeconds() float64 {
	return l.DurationSeconds * l.MaxWatchMultiplier
}
