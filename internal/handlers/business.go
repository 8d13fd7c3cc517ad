package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/qrmenu/internal/store"
	"github.com/example/qrmenu/internal/utils"
)

// BusinessHandler manages the admin side of the business profile.
type BusinessHandler struct {
	stores *store.Manager
	remote store.RemoteStore
}

// NewBusinessHandler constructs BusinessHandler. The remote store is used
// only for the synchronous slug-collision check on renames.
func NewBusinessHandler(stores *store.Manager, remote store.RemoteStore) *BusinessHandler {
	return &BusinessHandler{stores: stores, remote: remote}
}

// GetBusiness returns the editable business record.
func (h *BusinessHandler) GetBusiness(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	snap := ds.Snapshot()
	return c.JSON(fiber.Map{"success": true, "data": snap.Business})
}

// UpdateBusiness applies a partial update. Nested objects (social media,
// working hours, welcome settings, theme settings) are replaced whole when
// present; the admin forms always submit complete sub-objects.
func (h *BusinessHandler) UpdateBusiness(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	var patch store.BusinessPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	oldSlug := ds.Slug()
	if patch.Slug != nil {
		if err := h.checkSlugChange(c, ds, *patch.Slug); err != nil {
			return err
		}
	}

	if err := ds.UpdateBusiness(c.Context(), patch); err != nil {
		return storeError(err)
	}

	snap := ds.Snapshot()

	// A rename drops the old-slug registration. The next access under the
	// old route reloads and finds nothing; the new route initializes lazily
	// once the forwarded write lands.
	if patch.Slug != nil && *patch.Slug != oldSlug {
		h.stores.Invalidate(oldSlug)
	}

	return c.JSON(fiber.Map{"success": true, "data": snap.Business})
}

// checkSlugChange validates a rename synchronously: format first, then a
// direct remote lookup for collisions. A rename does not repoint the old
// route; visitors holding the old QR code see a not-found page after the
// cached instance is dropped.
func (h *BusinessHandler) checkSlugChange(c *fiber.Ctx, ds *store.DataStore, slug string) error {
	if !utils.ValidSlug(slug) {
		return fiber.NewError(fiber.StatusBadRequest, "slug: must be lowercase letters, digits and hyphens")
	}
	if slug == ds.Slug() {
		return nil
	}

	existing, err := h.remote.FetchBusinessBySlug(c.Context(), slug)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if existing != nil {
		return fiber.NewError(fiber.StatusConflict, "slug: already taken")
	}
	return nil
}
