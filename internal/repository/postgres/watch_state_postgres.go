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

type watchStateRepository struct {
	db *sqlx.DB
}

// NewWatchStateRepository creates a new PostgreSQL watch state repository
func NewWatchStateRepository(db *sqlx.DB) repository.WatchStateRepository {
	return &watchStateRepository{db: db}
}

// ApplyProgress upserts the (viewer, lesson) row with an atomic
// increment. The status CASE mirrors domain.EvaluateWatchStatus:
// BLOCKED is sticky and the new total is compared against the cap.
// Running increment and evaluation in one statement means concurrent
// duplicate reports cannot double-apply a stale snapshot.
func (r *watchStateRepository) ApplyProgress(ctx context.Context, viewerID, lessonID uuid.UUID, elapsedSeconds, lastPositionSeconds, capSeconds float64) (*domain.WatchState, error) {
	query := `
		INSERT INTO watch_states (
			id, viewer_id, lesson_id, total_watch_seconds, last_position_seconds,
			status, session_started_at, last_watched_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			CASE WHEN $6 > 0 AND $4 >= $6 THEN 'BLOCKED' ELSE 'ACTIVE' END,
			NOW(), NOW(), NOW()
		)
		ON CONFLICT (viewer_id, lesson_id) DO UPDATE SET
			total_watch_seconds = watch_states.total_watch_seconds + $4,
			last_position_seconds = $5,
			status = CASE
				WHEN watch_states.status = 'BLOCKED' THEN 'BLOCKED'
				WHEN $6 > 0 AND watch_states.total_watch_seconds + $4 >= $6 THEN 'BLOCKED'
				ELSE 'ACTIVE'
			END,
			last_watched_at = NOW(),
			updated_at = NOW()
		RETURNING id, viewer_id, lesson_id, total_watch_seconds, last_position_seconds,
				  status, session_started_at, last_watched_at, updated_at`

	var state domain.WatchState
	err := r.db.GetContext(ctx, &state, query,
		uuid.New(), viewerID, lessonID, elapsedSeconds, lastPositionSeconds, capSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to apply watch progress: %w", err)
	}

	return &state, nil
}

// SetTotal overwrites the accumulated total for an existing row and
// re-evaluates the status with the same sticky rule. If no row exists
// one is created so support staff can pre-seed a state.
func (r *watchStateRepository) SetTotal(ctx context.Context, viewerID, lessonID uuid.UUID, totalSeconds, capSeconds float64) (*domain.WatchState, error) {
	query := `
		INSERT INTO watch_states (
			id, viewer_id, lesson_id, total_watch_seconds, last_position_seconds,
			status, session_started_at, last_watched_at, updated_at
		) VALUES (
			$1, $2, $3, $4, 0,
			CASE WHEN $5 > 0 AND $4 >= $5 THEN 'BLOCKED' ELSE 'ACTIVE' END,
			NOW(), NOW(), NOW()
		)
		ON CONFLICT (viewer_id, lesson_id) DO UPDATE SET
			total_watch_seconds = $4,
			status = CASE
				WHEN watch_states.status = 'BLOCKED' THEN 'BLOCKED'
				WHEN $5 > 0 AND $4 >= $5 THEN 'BLOCKED'
				ELSE 'ACTIVE'
			END,
			updated_at = NOW()
		RETURNING id, viewer_id, lesson_id, total_watch_seconds, last_position_seconds,
				  status, session_started_at, last_watched_at, updated_at`

	var state domain.WatchState
	err := r.db.GetContext(ctx, &state, query,
		uuid.New(), viewerID, lessonID, totalSeconds, capSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to set watch total: %w", err)
	}

	return &state, nil
}

func (r *watchStateRepository) Get(ctx context.Context, viewerID, lessonID uuid.UUID) (*domain.WatchState, error) {
	query := `
		SELECT id, viewer_id, lesson_id, total_watch_seconds, last_position_seconds,
			   status, session_started_at, last_watched_at, updated_at
		FROM watch_states
		WHERE viewer_id = $1 AND lesson_id = $2`

	var state domain.WatchState
	err := r.db.GetContext(ctx, &state, query, viewerID, lessonID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("watch state not found: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get watch state: %w", err)
	}

	return &state, nil
}

func (r *watchStateRepository) Delete(ctx context.Context, viewerID, lessonID uuid.UUID) error {
	query := `DELETE FROM watch_states WHERE viewer_id = $1 AND lesson_id = $2`

	_, err := r.db.ExecContext(ctx, query, viewerID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to delete watch state: %w", err)
	}

	return nil
}
