package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/domain"
)

type watchFixture struct {
	svc      *WatchService
	watch    *fakeWatchRepo
	viewerID uuid.UUID
	lessonID uuid.UUID
}

// newWatchFixture wires a 600s lesson with a 2.0 multiplier (cap 1200s)
// and an approved enrollment for the viewer.
func newWatchFixture(t *testing.T) *watchFixture {
	t.Helper()

	watchRepo := newFakeWatchRepo()
	lessonRepo := newFakeLessonRepo()
	enrollmentRepo := newFakeEnrollmentRepo()

	viewerID := uuid.New()
	classID := uuid.New()
	lesson := &domain.Lesson{
		ID:                 uuid.New(),
		ClassID:            classID,
		Title:              "Derivadas parciales",
		DurationSeconds:    600,
		MaxWatchMultiplier: 2.0,
	}
	lessonRepo.lessons[lesson.ID] = lesson
	enrollmentRepo.approve(viewerID, classID)

	return &watchFixture{
		svc:      NewWatchService(watchRepo, lessonRepo, enrollmentRepo),
		watch:    watchRepo,
		viewerID: viewerID,
		lessonID: lesson.ID,
	}
}

func (f *watchFixture) report(t *testing.T, elapsed, position float64) *domain.WatchState {
	t.Helper()

	state, err := f.svc.ReportProgress(context.Background(), f.viewerID, f.lessonID, elapsed, position)
	if err != nil {
		t.Fatalf("ReportProgress(%v): %v", elapsed, err)
	}
	return state
}

func TestReportProgressAccumulates(t *testing.T) {
	f := newWatchFixture(t)

	state := f.report(t, 30, 30)
	if state.TotalWatchSeconds != 30 {
		t.Fatalf("total = %v, want 30", state.TotalWatchSeconds)
	}

	state = f.report(t, 45, 75)
	if state.TotalWatchSeconds != 75 {
		t.Fatalf("total = %v, want 75", state.TotalWatchSeconds)
	}
	if state.LastPositionSeconds != 75 {
		t.Fatalf("position = %v, want 75", state.LastPositionSeconds)
	}
	if state.Status != domain.WatchStatusActive {
		t.Fatalf("status = %s, want %s", state.Status, domain.WatchStatusActive)
	}
}

func TestTotalNeverDecreases(t *testing.T) {
	f := newWatchFixture(t)

	// A backward seek reports a smaller position but still a positive
	// elapsed delta; the total keeps growing.
	f.report(t, 100, 100)
	state := f.report(t, 10, 20)
	if state.TotalWatchSeconds != 110 {
		t.Fatalf("total = %v, want 110", state.TotalWatchSeconds)
	}
	if state.LastPositionSeconds != 20 {
		t.Fatalf("position = %v, want 20", state.LastPositionSeconds)
	}
}

func TestBlocksAtCap(t *testing.T) {
	f := newWatchFixture(t)

	state := f.report(t, 1199, 500)
	if state.Status != domain.WatchStatusActive {
		t.Fatalf("status at 1199s = %s, want %s", state.Status, domain.WatchStatusActive)
	}

	state = f.report(t, 2, 502)
	if state.TotalWatchSeconds != 1201 {
		t.Fatalf("total = %v, want 1201", state.TotalWatchSeconds)
	}
	if state.Status != domain.WatchStatusBlocked {
		t.Fatalf("status at 1201s = %s, want %s", state.Status, domain.WatchStatusBlocked)
	}
}

func TestBlockedIsSticky(t *testing.T) {
	f := newWatchFixture(t)
	f.report(t, 1300, 600)

	// Support lowers the total below the cap; the block must hold.
	state, err := f.svc.OverrideTotal(context.Background(), f.viewerID, f.lessonID, 100)
	if err != nil {
		t.Fatalf("OverrideTotal: %v", err)
	}
	if state.TotalWatchSeconds != 100 {
		t.Fatalf("total = %v, want 100", state.TotalWatchSeconds)
	}
	if state.Status != domain.WatchStatusBlocked {
		t.Fatalf("status after override = %s, want %s", state.Status, domain.WatchStatusBlocked)
	}

	state = f.report(t, 5, 105)
	if state.Status != domain.WatchStatusBlocked {
		t.Fatalf("status after further progress = %s, want %s", state.Status, domain.WatchStatusBlocked)
	}
}

func TestOverrideAboveCapBlocks(t *testing.T) {
	f := newWatchFixture(t)

	state, err := f.svc.OverrideTotal(context.Background(), f.viewerID, f.lessonID, 5000)
	if err != nil {
		t.Fatalf("OverrideTotal: %v", err)
	}
	if state.Status != domain.WatchStatusBlocked {
		t.Fatalf("status = %s, want %s", state.Status, domain.WatchStatusBlocked)
	}
}

func TestResetClearsBlock(t *testing.T) {
	f := newWatchFixture(t)
	f.report(t, 1300, 600)

	if err := f.svc.Reset(context.Background(), f.viewerID, f.lessonID); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	state := f.report(t, 10, 10)
	if state.TotalWatchSeconds != 10 {
		t.Fatalf("total after reset = %v, want 10", state.TotalWatchSeconds)
	}
	if state.Status != domain.WatchStatusActive {
		t.Fatalf("status after reset = %s, want %s", state.Status, domain.WatchStatusActive)
	}
}

func TestRejectsNegativeElapsed(t *testing.T) {
	f := newWatchFixture(t)

	if _, err := f.svc.ReportProgress(context.Background(), f.viewerID, f.lessonID, -1, 0); err != ErrNegativeElapsed {
		t.Fatalf("err = %v, want ErrNegativeElapsed", err)
	}
	if _, err := f.svc.OverrideTotal(context.Background(), f.viewerID, f.lessonID, -1); err != ErrNegativeElapsed {
		t.Fatalf("override err = %v, want ErrNegativeElapsed", err)
	}
}

func TestRejectsUnenrolledViewer(t *testing.T) {
	f := newWatchFixture(t)
	stranger := uuid.New()

	if _, err := f.svc.ReportProgress(context.Background(), stranger, f.lessonID, 10, 10); err != ErrNotEnrolled {
		t.Fatalf("err = %v, want ErrNotEnrolled", err)
	}
	if _, err := f.watch.Get(context.Background(), stranger, f.lessonID); err == nil {
		t.Fatal("rejected report still created a watch state")
	}
}

func TestUnknownLesson(t *testing.T) {
	f := newWatchFixture(t)

	if _, err := f.svc.ReportProgress(context.Background(), f.viewerID, uuid.New(), 10, 10); err == nil {
		t.Fatal("expected an error for an unknown lesson")
	}
}

func TestZeroDurationLessonNeverBlocks(t *testing.T) {
	watchRepo := newFakeWatchRepo()
	lessonRepo := newFakeLessonRepo()
	enrollmentRepo := newFakeEnrollmentRepo()

	viewerID := uuid.New()
	classID := uuid.New()
	lesson := &domain.Lesson{
		ID:                 uuid.New(),
		ClassID:            classID,
		Title:              "Clase en vivo",
		DurationSeconds:    0,
		MaxWatchMultiplier: 2.0,
	}
	lessonRepo.lessons[lesson.ID] = lesson
	enrollmentRepo.approve(viewerID, classID)

	svc := NewWatchService(watchRepo, lessonRepo, enrollmentRepo)

	state, err := svc.ReportProgress(context.Background(), viewerID, lesson.ID, 100000, 0)
	if err != nil {
		t.Fatalf("ReportProgress: %v", err)
	}
	if state.Status != domain.WatchStatusActive {
		t.Fatalf("status = %s, want %s for an unmetered lesson", state.Status, domain.WatchStatusActive)
	}
}
