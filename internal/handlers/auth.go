package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/qrmenu/internal/config"
	"github.com/example/qrmenu/internal/models"
	"github.com/example/qrmenu/internal/utils"
)

// AuthHandler bundles dependencies for admin account endpoints. Account
// provisioning talks to the database directly: tenant creation happens
// out-of-band of the per-tenant sync core.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	BusinessName string `json:"business_name"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// Register creates a business and its admin account in one transaction.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.BusinessName == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.NormalizeSlug(req.BusinessName)
	}
	if !utils.ValidSlug(slug) {
		return fiber.NewError(fiber.StatusBadRequest, "slug: must be lowercase letters, digits and hyphens")
	}

	var existing models.Business
	if err := h.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "slug already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var existingAdmin models.AdminUser
	if err := h.db.Where("email = ?", req.Email).First(&existingAdmin).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "account already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	business := models.Business{
		Slug:         slug,
		Name:         req.BusinessName,
		WorkingHours: models.DefaultWorkingHours(),
	}
	admin := models.AdminUser{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&business).Error; err != nil {
			return err
		}
		admin.BusinessID = business.ID
		return tx.Create(&admin).Error
	}); err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, admin.ID, business.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token":    token,
			"slug":     business.Slug,
			"business": business,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin and issues a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var admin models.AdminUser
	if err := h.db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	var business models.Business
	if err := h.db.First(&business, "id = ?", admin.BusinessID).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, admin.ID, admin.BusinessID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token": token,
			"slug":  business.Slug,
		},
	})
}
