package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/config"
	"github.com/alexxvives/akademo-access/internal/domain"
	"github.com/alexxvives/akademo-access/internal/repository"
	"github.com/alexxvives/akademo-access/pkg/hash"
	"github.com/alexxvives/akademo-access/pkg/token"
)

// Custom errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthService struct {
	userRepo   repository.UserRepository
	deviceRepo repository.DeviceSessionRepository
	codec      *token.Codec
	cfg        *config.Config
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type LoginRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Fingerprint string `json:"fingerprint"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func NewAuthService(
	userRepo repository.UserRepository,
	deviceRepo repository.DeviceSessionRepository,
	codec *token.Codec,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		deviceRepo: deviceRepo,
		codec:      codec,
		cfg:        cfg,
	}
}

// Register creates a new STUDENT account. The public endpoint cannot
// grant an elevated role; those are provisioned separately. A store
// failure during the duplicate check surfaces as-is rather than being
// mistaken for a free email.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := hash.Password(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.RoleStudent,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates credentials and issues a signed session token.
// Students get a device session: logging in deactivates every previous
// device session for the account, so the newest login always wins and
// tokens from older devices stop resolving.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, userAgent string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := hash.Verify(req.Password, user.PasswordHash)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	var deviceSessionID string
	if user.Role == domain.RoleStudent {
		session := &domain.DeviceSession{
			ID:           uuid.New(),
			UserID:       user.ID,
			Fingerprint:  req.Fingerprint,
			UserAgent:    userAgent,
			IsActive:     true,
			LastActiveAt: time.Now(),
			CreatedAt:    time.Now(),
		}
		if err := s.deviceRepo.StartSession(ctx, session); err != nil {
			return nil, err
		}
		deviceSessionID = session.ID.String()
	}

	payload, err := token.EncodeClaims(user.ID.String(), deviceSessionID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[AUTH_SERVICE] Failed to update last login for %s: %v", user.ID, err)
	}

	return &LoginResponse{
		Token: s.codec.Sign(payload),
		User:  user,
	}, nil
}

// Resolve turns an inbound token into a validated principal. Every
// failure mode collapses to ok=false so callers answer with a uniform
// authentication-required error and leak nothing about the sub-reason.
// For students carrying a device-session id, the referenced session
// must exist and still be active; a token from a superseded login
// therefore resolves to no session at all. Read-only, no side effects.
func (s *AuthService) Resolve(ctx context.Context, raw string) (*domain.User, bool) {
	payload, ok := s.codec.Verify(raw)
	if !ok {
		return nil, false
	}

	claims, ok := token.DecodeClaims(payload)
	if !ok {
		return nil, false
	}

	userID, err := uuid.Parse(claims.PrincipalID)
	if err != nil {
		return nil, false
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, false
	}

	if user.Role == domain.RoleStudent && claims.DeviceSessionID != "" {
		sessionID, err := uuid.Parse(claims.DeviceSessionID)
		if err != nil {
			return nil, false
		}
		session, err := s.deviceRepo.GetByID(ctx, sessionID)
		if err != nil {
			return nil, false
		}
		if session.UserID != user.ID || !session.IsActive {
			return nil, false
		}
	}

	return user, true
}

// Logout deactivates every device session for the caller. It always
// succeeds from the caller's perspective; an internal failure is
// logged and the cookie still gets cleared by the handler.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) {
	if err := s.deviceRepo.DeactivateAllForUser(ctx, userID); err != nil {
		log.Printf("[AUTH_SERVICE] Failed to deactivate sessions for %s: %v", userID, err)
	}
}
