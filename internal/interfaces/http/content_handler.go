package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/TixyFR/alymjr-portfolio-98/internal/application"
	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

type ContentHandler struct {
	repo      *application.ContentRepository
	reorderer *application.ReorderCoordinator
	partition application.PartitionView
}

func NewContentHandler(repo *application.ContentRepository, reorderer *application.ReorderCoordinator) *ContentHandler {
	return &ContentHandler{repo: repo, reorderer: reorderer}
}

func statusFor(err error) int {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return fiber.StatusBadRequest
	}
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// GetContent returns the cached items, partitioned by category when one is
// requested, refreshing the cache from the store first.
func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	category := domain.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
	}

	items, err := h.repo.Load(c.Context(), domain.QueryScope{Category: category})
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if category != "" {
		items = h.partition.Partition(items, category)
	}
	if items == nil {
		items = []domain.GalleryItem{}
	}
	return c.JSON(items)
}

func (h *ContentHandler) AddContent(c *fiber.Ctx) error {
	var input application.AddInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.repo.Add(c.Context(), input)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ContentHandler) UpdateContent(c *fiber.Ctx) error {
	id := c.Params("id")

	var patch domain.ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
	}

	item, err := h.repo.Update(c.Context(), id, patch)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(item)
}

func (h *ContentHandler) DeleteContent(c *fiber.Ctx) error {
	if err := h.repo.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusOK)
}

// ReorderContent moves one item within its category. The snapshot the
// ranks are computed from is the store's current order for that category.
func (h *ContentHandler) ReorderContent(c *fiber.Ctx) error {
	type Request struct {
		Category domain.Category `json:"category"`
		From     int             `json:"from"`
		To       int             `json:"to"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !req.Category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
	}

	items, err := h.repo.Load(c.Context(), domain.QueryScope{Category: req.Category})
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.reorderer.Reorder(c.Context(), items, req.From, req.To); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Content reordered"})
}
