package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	services "github.com/TixyFR/alymjr-portfolio-98/internal/service"
)

type S3Handler struct {
	service *services.S3Service
	logger  *zap.Logger
}

func NewS3Handler(service *services.S3Service, logger *zap.Logger) *S3Handler {
	return &S3Handler{service: service, logger: logger}
}

// HandleUploadImage receives one multipart image and returns the public
// URL to store on a gallery item.
func (h *S3Handler) HandleUploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file field"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}

	url, err := h.service.UploadImage(c.Context(), file, fileHeader)
	if err != nil {
		h.logger.Error("upload image", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"url": url})
}
