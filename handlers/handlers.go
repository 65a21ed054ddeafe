package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"chess-academy-backend/models"
	"chess-academy-backend/services"
)

// writeError maps the service error kinds onto HTTP statuses.
func writeError(c *fiber.Ctx, err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error()})
	}
	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nf.Error()})
	}
	var ue *models.UpstreamError
	if errors.As(err, &ue) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": ue.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// imageFromForm reads the optional "image" multipart field. Returns nil when
// the field is absent or empty.
func imageFromForm(c *fiber.Ctx) (*services.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil || fh == nil || fh.Size == 0 {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, &models.ValidationError{Field: "image", Reason: "unreadable upload"}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &models.ValidationError{Field: "image", Reason: "unreadable upload"}
	}
	return &services.ImageUpload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}, nil
}

// parseDate accepts a plain calendar date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
