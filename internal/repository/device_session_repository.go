package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/domain"
)

type DeviceSessionRepository interface {
	// StartSession deactivates every active session for the user and
	// inserts the given session as the only active one. Both steps run
	// in one transaction so a concurrent token resolve can never see
	// two active sessions, and the deactivate step runs first so the
	// new session is not caught by it.
	StartSession(ctx context.Context, session *domain.DeviceSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeviceSession, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DeviceSession, error)
	DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error
}
