package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/domain"
)

type LessonRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
}
