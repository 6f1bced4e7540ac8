package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/TixyFR/alymjr-portfolio-98/internal/application"
	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

type ContactHandler struct {
	service *application.ContactService
	limiter *application.RateLimiter
}

func NewContactHandler(service *application.ContactService, limiter *application.RateLimiter) *ContactHandler {
	return &ContactHandler{service: service, limiter: limiter}
}

func (h *ContactHandler) Create(c *fiber.Ctx) error {
	if h.limiter != nil {
		if ok, err := h.limiter.Allow(c.IP()); !ok {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
		}
	}

	var req domain.CreateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	msg, err := h.service.Create(c.Context(), req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	messages, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if messages == nil {
		messages = []domain.ContactMessage{}
	}
	return c.JSON(fiber.Map{
		"messages":     messages,
		"unread_count": application.UnreadCount(messages),
	})
}

func (h *ContactHandler) SetRead(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	type Request struct {
		Read bool `json:"read"`
	}
	req := Request{Read: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	if err := h.service.SetRead(c.Context(), id, req.Read); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Message updated"})
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusOK)
}
