package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexxvives/akademo-access/internal/repository"
	"github.com/alexxvives/akademo-access/pkg/email"
)

var (
	ErrCodeMismatch    = errors.New("invalid or expired verification code")
	ErrAlreadyVerified = errors.New("email already verified")
)

const codeTTL = 10 * time.Minute

// VerificationService manages emailed verification codes. Codes live
// in Redis with a TTL so expiry needs no sweeper.
type VerificationService struct {
	userRepo     repository.UserRepository
	redis        *redis.Client
	emailService email.EmailService
}

func NewVerificationService(userRepo repository.UserRepository, redisClient *redis.Client, emailService email.EmailService) *VerificationService {
	return &VerificationService{
		userRepo:     userRepo,
		redis:        redisClient,
		emailService: emailService,
	}
}

// SendCode generates a fresh 6-digit code for the address and emails
// it. A new code replaces any outstanding one.
func (s *VerificationService) SendCode(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	key := fmt.Sprintf("verify:code:%s", user.ID)
	if err := s.redis.Set(ctx, key, code, codeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if s.emailService == nil {
		log.Printf("[VERIFY] Email disabled, code for %s not sent", emailAddr)
		return nil
	}

	return s.emailService.SendVerificationCode(ctx, user.Email, user.FirstName, code)
}

// ConfirmCode checks the submitted code and marks the email verified.
// The code is single-use: it is deleted on success.
func (s *VerificationService) ConfirmCode(ctx context.Context, emailAddr, code string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return ErrCodeMismatch
	}

	key := fmt.Sprintf("verify:code:%s", user.ID)
	stored, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCodeMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to read verification code: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrCodeMismatch
	}

	if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		return err
	}

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		log.Printf("[VERIFY] Failed to delete used code for %s: %v", user.ID, err)
	}

	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
