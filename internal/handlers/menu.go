package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/qrmenu/internal/models"
	"github.com/example/qrmenu/internal/store"
	"github.com/example/qrmenu/internal/theme"
)

// MenuHandler serves the public storefront: everything a visitor scanning
// the QR code can see.
type MenuHandler struct {
	stores *store.Manager
	themes *theme.Registry
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(stores *store.Manager, themes *theme.Registry) *MenuHandler {
	return &MenuHandler{stores: stores, themes: themes}
}

// GetMenu returns the full storefront snapshot for one tenant.
func (h *MenuHandler) GetMenu(c *fiber.Ctx) error {
	ds, err := publicStore(c, h.stores)
	if err != nil {
		return err
	}

	snap := ds.Snapshot()
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"business":   snap.Business,
			"categories": snap.Categories,
			"products":   snap.Products,
			"tags":       snap.Tags,
			"theme":      h.themes.Tokens(ds.Slug()),
			"is_loading": ds.Loading(),
		},
	})
}

// GetBusiness returns the tenant's public profile.
func (h *MenuHandler) GetBusiness(c *fiber.Ctx) error {
	ds, err := publicStore(c, h.stores)
	if err != nil {
		return err
	}

	snap := ds.Snapshot()
	return c.JSON(fiber.Map{"success": true, "data": snap.Business})
}

// ListCategories returns the tenant's categories with derived counts.
func (h *MenuHandler) ListCategories(c *fiber.Ctx) error {
	ds, err := publicStore(c, h.stores)
	if err != nil {
		return err
	}

	snap := ds.Snapshot()
	return c.JSON(fiber.Map{"success": true, "data": snap.Categories})
}

// ListProducts returns products with optional storefront filters.
func (h *MenuHandler) ListProducts(c *fiber.Ctx) error {
	ds, err := publicStore(c, h.stores)
	if err != nil {
		return err
	}

	snap := ds.Snapshot()
	products := snap.Products

	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			products = filterProducts(products, func(p models.Product) bool {
				return p.CategoryID == id
			})
		}
	}

	if tag := c.Query("tag"); tag != "" {
		products = filterProducts(products, func(p models.Product) bool {
			for _, t := range p.Tags {
				if t == tag {
					return true
				}
			}
			return false
		})
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		needle := strings.ToLower(search)
		products = filterProducts(products, func(p models.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(p.Description), needle)
		})
	}

	if v := c.Query("featured"); v != "" {
		featured := v == "true" || v == "1"
		products = filterProducts(products, func(p models.Product) bool {
			return p.IsFeatured == featured
		})
	}

	if v := c.Query("new"); v != "" {
		isNew := v == "true" || v == "1"
		products = filterProducts(products, func(p models.Product) bool {
			return p.IsNew == isNew
		})
	}

	if v := c.Query("min_price"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			products = filterProducts(products, func(p models.Product) bool {
				return p.Price >= min
			})
		}
	}

	if v := c.Query("max_price"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			products = filterProducts(products, func(p models.Product) bool {
				return p.Price <= max
			})
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

// GetProduct returns one product's detail view.
func (h *MenuHandler) GetProduct(c *fiber.Ctx) error {
	ds, err := publicStore(c, h.stores)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	snap := ds.Snapshot()
	for _, p := range snap.Products {
		if p.ID == id {
			return c.JSON(fiber.Map{"success": true, "data": p})
		}
	}

	return fiber.NewError(fiber.StatusNotFound, "product not found")
}

// GetTheme returns the projected style tokens for the tenant.
func (h *MenuHandler) GetTheme(c *fiber.Ctx) error {
	ds, err := publicStore(c, h.stores)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": h.themes.Tokens(ds.Slug())})
}

// SubmitFeedback records a visitor review.
func (h *MenuHandler) SubmitFeedback(c *fiber.Ctx) error {
	ds, err := publicStore(c, h.stores)
	if err != nil {
		return err
	}

	var input store.FeedbackInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := ds.AddFeedback(c.Context(), input)
	if err != nil {
		return storeError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": feedback})
}

func filterProducts(products []models.Product, keep func(models.Product) bool) []models.Product {
	out := products[:0]
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
