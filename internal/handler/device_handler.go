package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/repository"
)

type DeviceHandler struct {
	deviceRepo repository.DeviceSessionRepository
}

func NewDeviceHandler(deviceRepo repository.DeviceSessionRepository) *DeviceHandler {
	return &DeviceHandler{
		deviceRepo: deviceRepo,
	}
}

// DeviceSessionResponse hides nothing sensitive but keeps the wire
// format stable independent of the storage row.
type DeviceSessionResponse struct {
	ID           string `json:"id"`
	Fingerprint  string `json:"fingerprint,omitempty"`
	UserAgent    string `json:"user_agent,omitempty"`
	IsActive     bool   `json:"is_active"`
	LastActiveAt string `json:"last_active_at"`
	CreatedAt    string `json:"created_at"`
}

// GetMyDevices lists the caller's device sessions, newest first. A
// student sees at most one active entry.
// GET /api/v1/users/me/devices
func (h *DeviceHandler) GetMyDevices(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	sessions, err := h.deviceRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve device sessions",
		})
	}

	response := make([]DeviceSessionResponse, len(sessions))
	for i, session := range sessions {
		response[i] = DeviceSessionResponse{
			ID:           session.ID.String(),
			Fingerprint:  session.Fingerprint,
			UserAgent:    session.UserAgent,
			IsActive:     session.IsActive,
			LastActiveAt: session.LastActiveAt.Format("2006-01-02T15:04:05Z07:00"),
			CreatedAt:    session.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return c.JSON(fiber.Map{
		"devices": response,
		"count":   len(response),
	})
}
