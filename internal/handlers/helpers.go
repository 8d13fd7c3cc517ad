package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/qrmenu/internal/middleware"
	"github.com/example/qrmenu/internal/store"
)

// storeError maps the sync core's error taxonomy onto fiber errors.
// Transient remote failures never reach here: the DataStore swallows them
// after the optimistic apply.
func storeError(err error) error {
	var validation *store.ValidationError
	if errors.As(err, &validation) {
		return fiber.NewError(fiber.StatusBadRequest, validation.Error())
	}
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	return err
}

// publicStore resolves the tenant store for the :slug route param.
func publicStore(c *fiber.Ctx, stores *store.Manager) (*store.DataStore, error) {
	slug := c.Params("slug")
	ds, err := stores.Store(c.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "business not found")
		}
		return nil, err
	}
	return ds, nil
}

// adminStore resolves the tenant store for an admin route and verifies the
// session token belongs to that business.
func adminStore(c *fiber.Ctx, stores *store.Manager) (*store.DataStore, error) {
	ds, err := publicStore(c, stores)
	if err != nil {
		return nil, err
	}

	businessID, ok := middleware.GetCurrentBusinessID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	snap := ds.Snapshot()
	if snap.Business == nil || snap.Business.ID != businessID {
		return nil, fiber.NewError(fiber.StatusForbidden, "business does not belong to this account")
	}

	return ds, nil
}
