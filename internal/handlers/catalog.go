package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/qrmenu/internal/store"
)

// CatalogHandler manages the admin side of categories and the tag
// vocabulary.
type CatalogHandler struct {
	stores *store.Manager
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(stores *store.Manager) *CatalogHandler {
	return &CatalogHandler{stores: stores}
}

// CreateCategory adds a category to the tenant's menu.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	var input store.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	category, err := ds.AddCategory(c.Context(), input)
	if err != nil {
		return storeError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// UpdateCategory rewrites an existing category.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var input store.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	category, err := ds.UpdateCategory(c.Context(), id, input)
	if err != nil {
		return storeError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category and cascades to its products.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := ds.DeleteCategory(c.Context(), id); err != nil {
		return storeError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type tagRequest struct {
	Name string `json:"name"`
}

// ListTags returns the tenant's tag vocabulary.
func (h *CatalogHandler) ListTags(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	snap := ds.Snapshot()
	return c.JSON(fiber.Map{"success": true, "data": snap.Tags})
}

// AddTag adds a name to the vocabulary; duplicates are silently kept as one.
func (h *CatalogHandler) AddTag(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	var req tagRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := ds.AddTag(c.Context(), req.Name); err != nil {
		return storeError(err)
	}

	snap := ds.Snapshot()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": snap.Tags})
}

// RemoveTag drops a name from the vocabulary.
func (h *CatalogHandler) RemoveTag(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	if err := ds.RemoveTag(c.Context(), c.Params("name")); err != nil {
		return storeError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
