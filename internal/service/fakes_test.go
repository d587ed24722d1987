package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/domain"
	"github.com/alexxvives/akademo-access/internal/repository"
)

// In-memory fakes of the repository interfaces. The watch-state fake
// mirrors the semantics of the SQL upsert, including the sticky status
// rule, so the services behave the same against both backends.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.EmailVerified = true
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

type fakeDeviceRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.DeviceSession
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{sessions: make(map[uuid.UUID]*domain.DeviceSession)}
}

func (r *fakeDeviceRepo) StartSession(_ context.Context, session *domain.DeviceSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == session.UserID {
			s.IsActive = false
		}
	}
	s := *session
	r.sessions[session.ID] = &s
	return nil
}

func (r *fakeDeviceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.DeviceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s := *session
	return &s, nil
}

func (r *fakeDeviceRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*domain.DeviceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.DeviceSession
	for _, session := range r.sessions {
		if session.UserID == userID {
			s := *session
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *fakeDeviceRepo) DeactivateAllForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		if session.UserID == userID {
			session.IsActive = false
		}
	}
	return nil
}

type watchKey struct {
	viewerID uuid.UUID
	lessonID uuid.UUID
}

type fakeWatchRepo struct {
	mu     sync.Mutex
	states map[watchKey]*domain.WatchState
}

func newFakeWatchRepo() *fakeWatchRepo {
	return &fakeWatchRepo{states: make(map[watchKey]*domain.WatchState)}
}

func (r *fakeWatchRepo) ApplyProgress(_ context.Context, viewerID, lessonID uuid.UUID, elapsedSeconds, lastPositionSeconds, capSeconds float64) (*domain.WatchState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := watchKey{viewerID: viewerID, lessonID: lessonID}
	state, ok := r.states[key]
	if !ok {
		state = &domain.WatchState{
			ID:               uuid.New(),
			ViewerID:         viewerID,
			LessonID:         lessonID,
			Status:           domain.WatchStatusActive,
			SessionStartedAt: time.Now(),
		}
		r.states[key] = state
	}

	state.Status = domain.EvaluateWatchStatus(state.Status, state.TotalWatchSeconds+elapsedSeconds, capSeconds)
	state.TotalWatchSeconds += elapsedSeconds
	state.LastPositionSeconds = lastPositionSeconds
	state.LastWatchedAt = time.Now()
	state.UpdatedAt = time.Now()

	s := *state
	return &s, nil
}

func (r *fakeWatchRepo) SetTotal(_ context.Context, viewerID, lessonID uuid.UUID, totalSeconds, capSeconds float64) (*domain.WatchState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := watchKey{viewerID: viewerID, lessonID: lessonID}
	state, ok := r.states[key]
	if !ok {
		state = &domain.WatchState{
			ID:               uuid.New(),
			ViewerID:         viewerID,
			LessonID:         lessonID,
			Status:           domain.WatchStatusActive,
			SessionStartedAt: time.Now(),
		}
		r.states[key] = state
	}

	state.Status = domain.EvaluateWatchStatus(state.Status, totalSeconds, capSeconds)
	state.TotalWatchSeconds = totalSeconds
	state.UpdatedAt = time.Now()

	s := *state
	return &s, nil
}

func (r *fakeWatchRepo) Get(_ context.Context, viewerID, lessonID uuid.UUID) (*domain.WatchState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[watchKey{viewerID: viewerID, lessonID: lessonID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s := *state
	return &s, nil
}

func (r *fakeWatchRepo) Delete(_ context.Context, viewerID, lessonID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, watchKey{viewerID: viewerID, lessonID: lessonID})
	return nil
}

type fakeLessonRepo struct {
	lessons map[uuid.UUID]*domain.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[uuid.UUID]*domain.Lesson)}
}

func (r *fakeLessonRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Lesson, error) {
	lesson, ok := r.lessons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	l := *lesson
	return &l, nil
}

type enrollKey struct {
	userID  uuid.UUID
	classID uuid.UUID
}

type fakeEnrollmentRepo struct {
	enrollments map[enrollKey]*domain.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: make(map[enrollKey]*domain.Enrollment)}
}

func (r *fakeEnrollmentRepo) GetByUserAndClass(_ context.Context, userID, classID uuid.UUID) (*domain.Enrollment, error) {
	enrollment, ok := r.enrollments[enrollKey{userID: userID, classID: classID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e := *enrollment
	return &e, nil
}

func (r *fakeEnrollmentRepo) IsApproved(_ context.Context, userID, classID uuid.UUID) (bool, error) {
	enrollment, ok := r.enrollments[enrollKey{userID: userID, classID: classID}]
	if !ok {
		return false, nil
	}
	return enrollment.Status == domain.EnrollmentStatusApproved, nil
}

func (r *fakeEnrollmentRepo) approve(userID, classID uuid.UUID) {
	r.enrollments[enrollKey{userID: userID, classID: classID}] = &domain.Enrollment{
		ID:      uuid.New(),
		UserID:  userID,
		ClassID: classID,
		Status:  domain.EnrollmentStatusApproved,
	}
}
