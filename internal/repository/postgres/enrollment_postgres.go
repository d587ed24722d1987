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

type enrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new PostgreSQL enrollment repository
func NewEnrollmentRepository(db *sqlx.DB) repository.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) GetByUserAndClass(ctx context.Context, userID, classID uuid.UUID) (*domain.Enrollment, error) {
	query := `
		SELECT id, user_id, class_id, status, created_at, updated_at
		FROM enrollments
		WHERE user_id = $1 AND class_id = $2`

	var enrollment domain.Enrollment
	err := r.db.GetContext(ctx, &enrollment, query, userID, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("enrollment not found: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) IsApproved(ctx context.Context, userID, classID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE user_id = $1 AND class_id = $2 AND status = 'APPROVED'
		)`

	var approved bool
	err := r.db.GetContext(ctx, &approved, query, userID, classID)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}

	return approved, nil
}
