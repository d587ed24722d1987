package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/alexxvives/akademo-access/internal/domain"
	"github.com/alexxvives/akademo-access/internal/repository"
)

type deviceSessionRepository struct {
	db *sqlx.DB
}

// NewDeviceSessionRepository creates a new PostgreSQL device session repository
func NewDeviceSessionRepository(db *sqlx.DB) repository.DeviceSessionRepository {
	return &deviceSessionRepository{db: db}
}

// StartSession deactivates all active sessions for the user and inserts
// the new one inside a single transaction. Deactivation must run first:
// if the insert ran first the new session would be deactivated with the
// rest.
func (r *deviceSessionRepository) StartSession(ctx context.Context, session *domain.DeviceSession) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deactivate := `
		UPDATE device_sessions
		SET is_active = false
		WHERE user_id = $1 AND is_active = true`

	if _, err := tx.ExecContext(ctx, deactivate, session.UserID); err != nil {
		return fmt.Errorf("failed to deactivate previous sessions: %w", err)
	}

	insert := `
		INSERT INTO device_sessions (
			id, user_id, fingerprint, user_agent,
			is_active, last_active_at, created_at
		) VALUES (
			:id, :user_id, :fingerprint, :user_agent,
			:is_active, :last_active_at, :created_at
		)`

	if _, err := tx.NamedExecContext(ctx, insert, session); err != nil {
		return fmt.Errorf("failed to create device session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit device session: %w", err)
	}

	return nil
}

func (r *deviceSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeviceSession, error) {
	query := `
		SELECT id, user_id, fingerprint, user_agent,
			   is_active, last_active_at, created_at
		FROM device_sessions
		WHERE id = $1`

	var session domain.DeviceSession
	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("device session not found: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get device session by id: %w", err)
	}

	return &session, nil
}

func (r *deviceSessionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.DeviceSession, error) {
	query := `
		SELECT id, user_id, fingerprint, user_agent,
			   is_active, last_active_at, created_at
		FROM device_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var sessions []*domain.DeviceSession
	err := r.db.SelectContext(ctx, &sessions, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get device sessions by user id: %w", err)
	}

	return sessions, nil
}

func (r *deviceSessionRepository) DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE device_sessions
		SET is_active = false
		WHERE user_id = $1 AND is_active = true`

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate device sessions: %w", err)
	}

	return nil
}
