package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/domain"
)

type EnrollmentRepository interface {
	GetByUserAndClass(ctx context.Context, userID, classID uuid.UUID) (*domain.Enrollment, error)
	// IsApproved reports whether the user holds an APPROVED enrollment
	// for the class. Missing rows are not an error, just false.
	IsApproved(ctx context.Context, userID, classID uuid.UUID) (bool, error)
}
