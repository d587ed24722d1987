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

type lessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new PostgreSQL lesson repository
func NewLessonRepository(db *sqlx.DB) repository.LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	query := `
		SELECT id, class_id, title, duration_seconds, max_watch_multiplier, created_at
		FROM lessons
		WHERE id = $1`

	var lesson domain.Lesson
	err := r.db.GetContext(ctx, &lesson, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("lesson not found: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}
