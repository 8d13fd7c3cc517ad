package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/qrmenu/internal/store"
)

// ProductHandler manages the admin side of products.
type ProductHandler struct {
	stores *store.Manager
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(stores *store.Manager) *ProductHandler {
	return &ProductHandler{stores: stores}
}

// CreateProduct adds a product to the tenant's menu.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	var input store.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := ds.AddProduct(c.Context(), input)
	if err != nil {
		return storeError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct replaces an existing product's fields.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var input store.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := ds.UpdateProduct(c.Context(), id, input)
	if err != nil {
		return storeError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := ds.DeleteProduct(c.Context(), id); err != nil {
		return storeError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
