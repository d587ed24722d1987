package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/domain"
)

type WatchStateRepository interface {
	// ApplyProgress adds elapsedSeconds to the accumulated total for
	// the (viewer, lesson) pair, creating the row on first report, and
	// re-evaluates the status against capSeconds in the same atomic
	// statement. A BLOCKED row stays BLOCKED. Returns the updated row.
	ApplyProgress(ctx context.Context, viewerID, lessonID uuid.UUID, elapsedSeconds, lastPositionSeconds, capSeconds float64) (*domain.WatchState, error)

	// SetTotal overwrites the accumulated total (support tooling). The
	// status is re-evaluated with the same sticky rule as ApplyProgress.
	SetTotal(ctx context.Context, viewerID, lessonID uuid.UUID, totalSeconds, capSeconds float64) (*domain.WatchState, error)

	Get(ctx context.Context, viewerID, lessonID uuid.UUID) (*domain.WatchState, error)
	Delete(ctx context.Context, viewerID, lessonID uuid.UUID) error
}
