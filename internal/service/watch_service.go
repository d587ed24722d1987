package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/domain"
	"github.com/alexxvives/akademo-access/internal/repository"
)

var (
	// ErrNotEnrolled means the viewer holds no approved enrollment for
	// the lesson's class. Distinct from a BLOCKED status, which is a
	// normal outcome of accumulation, not an error.
	ErrNotEnrolled = errors.New("no approved enrollment for this lesson")

	// ErrNegativeElapsed rejects corrective reports: elapsed watch time
	// is only ever added, a client cannot subtract from its total.
	ErrNegativeElapsed = errors.New("elapsed watch time must not be negative")
)

// WatchService meters how much of a lesson a viewer has watched.
// A viewer may accumulate watch time up to the lesson's duration times
// its multiplier; past that the state turns BLOCKED and stays BLOCKED
// until an explicit admin reset. The client is expected to stop
// playback when it sees BLOCKED; the server cannot terminate an
// already-open stream, it only refuses further accumulation and gates
// new stream-URL issuance.
type WatchService struct {
	watchRepo      repository.WatchStateRepository
	lessonRepo     repository.LessonRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewWatchService(
	watchRepo repository.WatchStateRepository,
	lessonRepo repository.LessonRepository,
	enrollmentRepo repository.EnrollmentRepository,
) *WatchService {
	return &WatchService{
		watchRepo:      watchRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// ReportProgress adds an elapsed watch-time delta for the (viewer,
// lesson) pair and returns the updated state. The delta is what the
// client measured, never the raw position: positions seek backward,
// accumulated watch time must not. The increment and the status
// decision are applied atomically by the repository, so duplicate
// reports from a flaky client cannot double-count past what was
// actually reported.
func (s *WatchService) ReportProgress(ctx context.Context, viewerID, lessonID uuid.UUID, elapsedSeconds, lastPositionSeconds float64) (*domain.WatchState, error) {
	if elapsedSeconds < 0 {
		return nil, ErrNegativeElapsed
	}

	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	approved, err := s.enrollmentRepo.IsApproved(ctx, viewerID, lesson.ClassID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, ErrNotEnrolled
	}

	return s.watchRepo.ApplyProgress(ctx, viewerID, lessonID, elapsedSeconds, lastPositionSeconds, lesson.MaxWatchSeconds())
}

// Reset deletes the watch state for the pair, returning it to a fresh
// unrecorded state. This is the only way out of BLOCKED.
func (s *WatchService) Reset(ctx context.Context, viewerID, lessonID uuid.UUID) error {
	return s.watchRepo.Delete(ctx, viewerID, lessonID)
}

// OverrideTotal sets the accumulated total directly (support tooling).
// The threshold rule is re-run rather than assuming ACTIVE, and a
// BLOCKED state stays BLOCKED even when the new total is below the
// cap: un-blocking is Reset's job alone.
func (s *WatchService) OverrideTotal(ctx context.Context, viewerID, lessonID uuid.UUID, totalSeconds float64) (*domain.WatchState, error) {
	if totalSeconds < 0 {
		return nil, ErrNegativeElapsed
	}

	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	return s.watchRepo.SetTotal(ctx, viewerID, lessonID, totalSeconds, lesson.MaxWatchSeconds())
}
