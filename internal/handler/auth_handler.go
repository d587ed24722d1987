package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/alexxvives/akademo-access/internal/config"
	"github.com/alexxvives/akademo-access/internal/domain"
	"github.com/alexxvives/akademo-access/internal/service"
	"github.com/alexxvives/akademo-access/pkg/validator"
)

type AuthHandler struct {
	authService         *service.AuthService
	verificationService *service.VerificationService
	authConfig          *config.AuthConfig
	validator           *validator.Validator
}

func NewAuthHandler(
	authService *service.AuthService,
	verificationService *service.VerificationService,
	authConfig *config.AuthConfig,
	validator *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		verificationService: verificationService,
		authConfig:          authConfig,
		validator:           validator,
	}
}

// Register handles account creation
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
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

	user, err := h.authService.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register",
		})
	}

	// Best effort: registration succeeds even if the code email fails
	_ = h.verificationService.SendCode(c.Context(), user.Email)

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
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

	resp, err := h.authService.Login(c.Context(), req, c.Get("User-Agent"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid credentials",
		})
	}

	// Cookie for same-site callers; the token in the body serves
	// cross-domain frontends that must use the Authorization header.
	setSessionCookie(c, h.authConfig, resp.Token)

	return c.Status(fiber.StatusOK).JSON(resp)
}

// Logout deactivates the caller's device sessions and clears the
// cookie. Always answers 200: from the caller's perspective logging
// out cannot fail.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if userID, ok := c.Locals("user_id").(uuid.UUID); ok {
		h.authService.Logout(c.Context(), userID)
	}

	clearSessionCookie(c, h.authConfig)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// GetMe returns the current principal
// GET /api/v1/users/me
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*domain.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// SendVerificationCode re-sends the email verification code
// POST /api/v1/auth/verify/send
func (h *AuthHandler) SendVerificationCode(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
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

	if err := h.verificationService.SendCode(c.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrAlreadyVerified) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		// Same answer whether or not the account exists
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "If the account exists, a code has been sent",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If the account exists, a code has been sent",
	})
}

// ConfirmVerificationCode validates a submitted code
// POST /api/v1/auth/verify/confirm
func (h *AuthHandler) ConfirmVerificationCode(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,len=6"`
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

	if err := h.verificationService.ConfirmCode(c.Context(), req.Email, req.Code); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid or expired verification code",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Email verified successfully",
	})
}
