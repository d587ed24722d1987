package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeviceSession is one login instance of a student. At most one row
// per student has IsActive = true; logging in on a new device
// deactivates the previous rows before inserting a new one
// (last-login-wins). Other roles never create device sessions.
type DeviceSession struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Fingerprint  string    `json:"fingerprint,omitempty" db:"fingerprint"`
	UserAgent    string    `json:"user_agent,omitempty" db:"user_agent"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	LastActiveAt time.Time `json:"last_active_at" db:"last_active_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
