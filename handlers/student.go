package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"chess-academy-backend/middleware"
	"chess-academy-backend/models"
	"chess-academy-backend/services"
)

type StudentHandler struct {
	Service *services.StudentService
}

func SetupStudentRoutes(app *fiber.App, svc *services.StudentService) {
	h := &StudentHandler{Service: svc}

	// 🔓 Public route — testimonial cards for the website
	app.Get("/students", h.ListPublic)

	// 🔐 Admin routes
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())
	admin.Get("/students", h.List)
	admin.Post("/students", h.Create)
	admin.Put("/students/reorder", h.Reorder) // must register before /students/:id
	admin.Get("/students/:id", h.Get)
	admin.Put("/students/:id", h.Update)
	admin.Delete("/students/:id", h.Delete)
	admin.Patch("/students/:id/toggle", h.ToggleActive)
}

func studentInputFromForm(c *fiber.Ctx) (services.StudentInput, error) {
	var in services.StudentInput
	in.Name = c.FormValue("name")
	in.Achievement = c.FormValue("achievement")
	in.Quote = c.FormValue("quote")
	in.PhotoEmoji = c.FormValue("photo_emoji")

	in.Rating = 5
	if v := c.FormValue("rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, &models.ValidationError{Field: "rating", Reason: "must be an integer"}
		}
		in.Rating = n
	}
	if v := c.FormValue("sort_order"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, &models.ValidationError{Field: "sort_order", Reason: "must be an integer"}
		}
		in.SortOrder = n
	}
	return in, nil
}

func (h *StudentHandler) Create(c *fiber.Ctx) error {
	in, err := studentInputFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	img, err := imageFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	st, err := h.Service.Create(c.Context(), in, img)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(st)
}

func (h *StudentHandler) Get(c *fiber.Ctx) error {
	st, err := h.Service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

func (h *StudentHandler) Update(c *fiber.Ctx) error {
	in, err := studentInputFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	img, err := imageFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	st, err := h.Service.Update(c.Context(), c.Params("id"), in, img)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "student deleted", "id": c.Params("id")})
}

func (h *StudentHandler) ToggleActive(c *fiber.Ctx) error {
	st, err := h.Service.ToggleActive(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

func (h *StudentHandler) Reorder(c *fiber.Ctx) error {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if err := h.Service.Reorder(c.Context(), body.IDs); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "students reordered"})
}

func (h *StudentHandler) ListPublic(c *fiber.Ctx) error {
	items, err := h.Service.ListPublic(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

func (h *StudentHandler) List(c *fiber.Ctx) error {
	items, err := h.Service.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}
