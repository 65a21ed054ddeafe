package handlers

import (
	"github.com/gofiber/fiber/v2"

	"chess-academy-backend/middleware"
	"chess-academy-backend/services"
)

type EnrollmentHandler struct {
	Service *services.EnrollmentService
}

func SetupEnrollmentRoutes(app *fiber.App, svc *services.EnrollmentService) {
	h := &EnrollmentHandler{Service: svc}

	// 🔓 Public intake form
	app.Post("/enroll", h.Submit)

	// 🔐 Admin follow-up workflow
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())
	admin.Get("/enrollments", h.List)
	admin.Patch("/enrollments/:id/status", h.UpdateStatus)
	admin.Delete("/enrollments/:id", h.Delete)
}

func (h *EnrollmentHandler) Submit(c *fiber.Ctx) error {
	var in services.EnrollmentInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	e, err := h.Service.Submit(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	page, err := h.Service.List(c.Context(), c.Query("status", "all"), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

func (h *EnrollmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	e, err := h.Service.UpdateStatus(c.Context(), c.Params("id"), body.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(e)
}

func (h *EnrollmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "enrollment deleted", "id": c.Params("id")})
}
