package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/domain"
	"github.com/alexxvives/akademo-access/internal/service"
	"github.com/alexxvives/akademo-access/pkg/validator"
)

type WatchHandler struct {
	watchService *service.WatchService
	validator    *validator.Validator
}

func NewWatchHandler(watchService *service.WatchService, validator *validator.Validator) *WatchHandler {
	return &WatchHandler{
		watchService: watchService,
		validator:    validator,
	}
}

type progressRequest struct {
	LessonID                string  `json:"lesson_id" validate:"required,uuid"`
	WatchTimeElapsedSeconds float64 `json:"watch_time_elapsed_seconds" validate:"gte=0"`
	LastPositionSeconds     float64 `json:"last_position_seconds" validate:"gte=0"`
}

type progressResponse struct {
	TotalWatchTimeSeconds float64            `json:"total_watch_time_seconds"`
	LastPositionSeconds   float64            `json:"last_position_seconds"`
	Status                domain.WatchStatus `json:"status"`
}

// ReportProgress accepts a watch-time delta from the player. BLOCKED
// in the response is data, not an error: the client stops playback and
// stops getting new stream URLs, but the request itself succeeded.
// POST /api/v1/progress
func (h *WatchHandler) ReportProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req progressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	lessonID, err := uuid.Parse(req.LessonID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	state, err := h.watchService.ReportProgress(c.Context(), userID, lessonID,
		req.WatchTimeElapsedSeconds, req.LastPositionSeconds)
	if err != nil {
		if errors.Is(err, service.ErrNotEnrolled) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, service.ErrNegativeElapsed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record progress",
		})
	}

	return c.Status(fiber.StatusOK).JSON(progressResponse{
		TotalWatchTimeSeconds: state.TotalWatchSeconds,
		LastPositionSeconds:   state.LastPositionSeconds,
		Status:                state.Status,
	})
}

// ResetWatchState deletes the watch state for an arbitrary pair on
// behalf of support staff.
// POST /api/v1/admin/watch/:viewerId/:lessonId/reset
func (h *WatchHandler) ResetWatchState(c *fiber.Ctx) error {
	viewerID, lessonID, ok := parseWatchParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid viewer or lesson ID",
		})
	}

	if err := h.watchService.Reset(c.Context(), viewerID, lessonID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset watch state",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Watch state reset successfully",
	})
}

// OverrideWatchState sets the accumulated total directly
// PUT /api/v1/admin/watch/:viewerId/:lessonId
func (h *WatchHandler) OverrideWatchState(c *fiber.Ctx) error {
	viewerID, lessonID, ok := parseWatchParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid viewer or lesson ID",
		})
	}

	var req struct {
		TotalWatchTimeSeconds float64 `json:"total_watch_time_seconds" validate:"gte=0"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	state, err := h.watchService.OverrideTotal(c.Context(), viewerID, lessonID, req.TotalWatchTimeSeconds)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to override watch state",
		})
	}

	return c.Status(fiber.StatusOK).JSON(progressResponse{
		TotalWatchTimeSeconds: state.TotalWatchSeconds,
		LastPositionSeconds:   state.LastPositionSeconds,
		Status:                state.Status,
	})
}

func parseWatchParams(c *fiber.Ctx) (viewerID, lessonID uuid.UUID, ok bool) {
	viewerID, err := uuid.Parse(c.Params("viewerId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	lessonID, err = uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return viewerID, lessonID, true
}
