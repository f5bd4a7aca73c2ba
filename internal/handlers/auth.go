package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/config"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/services"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/utils"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/validation"
)

// AuthHandler bundles dependencies for registration and the OTP login
// flow.
type AuthHandler struct {
	db  *gorm.DB
	otp *services.OTPService
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, otp *services.OTPService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, otp: otp, cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return mapServiceError(err)
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Email, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    redactUser(&user),
		"token":   token,
	})
}

type otpStartRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StartLogin begins the OTP login flow: password check, then a fresh
// code is issued and emailed.
func (h *AuthHandler) StartLogin(c *fiber.Ctx) error {
	var req otpStartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return mapServiceError(err)
	}

	code, err := h.otp.StartLogin(req.Email, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	resp := fiber.Map{
		"success": true,
		"email":   req.Email,
	}
	if !h.cfg.Production() {
		resp["otp"] = code
	}

	return c.JSON(resp)
}

type otpVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// VerifyLogin checks the submitted code and issues a session token.
func (h *AuthHandler) VerifyLogin(c *fiber.Ctx) error {
	var req otpVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return mapServiceError(err)
	}

	token, user, err := h.otp.VerifyLogin(req.Email, req.OTP)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    redactUser(user),
	})
}

type otpResendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendOTP issues a fresh code without re-checking the password.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req otpResendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return mapServiceError(err)
	}

	if _, err := h.otp.Resend(req.Email); err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func redactUser(user *models.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}
