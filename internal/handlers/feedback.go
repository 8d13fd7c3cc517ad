package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/qrmenu/internal/store"
)

// FeedbackHandler manages the admin review inbox.
type FeedbackHandler struct {
	stores *store.Manager
}

// NewFeedbackHandler constructs FeedbackHandler.
func NewFeedbackHandler(stores *store.Manager) *FeedbackHandler {
	return &FeedbackHandler{stores: stores}
}

// ListFeedback returns all reviews with an unread counter.
func (h *FeedbackHandler) ListFeedback(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	snap := ds.Snapshot()
	unread := 0
	for _, f := range snap.Feedback {
		if !f.IsRead {
			unread++
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    snap.Feedback,
		"unread":  unread,
	})
}

// MarkFeedbackRead flags one review as seen.
func (h *FeedbackHandler) MarkFeedbackRead(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := ds.MarkFeedbackRead(c.Context(), id); err != nil {
		return storeError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteFeedback removes a review.
func (h *FeedbackHandler) DeleteFeedback(c *fiber.Ctx) error {
	ds, err := adminStore(c, h.stores)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := ds.DeleteFeedback(c.Context(), id); err != nil {
		return storeError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
