package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"chess-academy-backend/middleware"
	"chess-academy-backend/models"
	"chess-academy-backend/services"
)

type TournamentHandler struct {
	Service *services.TournamentService
}

func SetupTournamentRoutes(app *fiber.App, svc *services.TournamentService) {
	h := &TournamentHandler{Service: svc}

	// 🔓 Public routes — what the website shows
	app.Get("/tournaments", h.ListPublic)
	app.Get("/tournaments/past", h.ListPast)

	// 🔐 Admin routes
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())
	admin.Get("/tournaments", h.List)
	admin.Post("/tournaments", h.Create)
	admin.Get("/tournaments/:id", h.Get)
	admin.Put("/tournaments/:id", h.Update)
	admin.Delete("/tournaments/:id", h.Delete)
	admin.Patch("/tournaments/:id/participants", h.UpdateParticipants)
	admin.Patch("/tournaments/:id/complete", h.Complete)
	admin.Patch("/tournaments/:id/cancel", h.Cancel)
	admin.Patch("/tournaments/:id/toggle", h.ToggleActive)
}

// inputFromForm builds a TournamentInput from the multipart form fields.
func inputFromForm(c *fiber.Ctx) (services.TournamentInput, error) {
	var in services.TournamentInput
	in.Name = c.FormValue("name")
	in.TimeText = c.FormValue("time")
	in.Location = c.FormValue("location")
	in.Address = c.FormValue("address")
	in.EntryFee = c.FormValue("entry_fee")
	in.PrizePool = c.FormValue("prize_pool")
	in.Format = c.FormValue("format")
	in.TimeControl = c.FormValue("time_control")
	in.Description = c.FormValue("description")
	in.Category = c.FormValue("category")
	in.RegistrationURL = c.FormValue("registration_url")
	in.PosterEmoji = c.FormValue("poster_emoji")

	if v := c.FormValue("date"); v != "" {
		d, ok := parseDate(v)
		if !ok {
			return in, &models.ValidationError{Field: "date", Reason: "use YYYY-MM-DD or RFC3339"}
		}
		in.Date = d
	}
	if v := c.FormValue("list_until"); v != "" {
		d, ok := parseDate(v)
		if !ok {
			return in, &models.ValidationError{Field: "list_until", Reason: "use YYYY-MM-DD or RFC3339"}
		}
		in.ListUntil = d
	}
	if v := c.FormValue("max_participants"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, &models.ValidationError{Field: "max_participants", Reason: "must be an integer"}
		}
		in.MaxParticipants = n
	}
	if v := c.FormValue("current_participants"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, &models.ValidationError{Field: "current_participants", Reason: "must be an integer"}
		}
		in.CurrentParticipants = n
	}
	return in, nil
}

func (h *TournamentHandler) Create(c *fiber.Ctx) error {
	in, err := inputFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	img, err := imageFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	t, err := h.Service.Create(c.Context(), in, img)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *TournamentHandler) Get(c *fiber.Ctx) error {
	t, err := h.Service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *TournamentHandler) Update(c *fiber.Ctx) error {
	in, err := inputFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	img, err := imageFromForm(c)
	if err != nil {
		return writeError(c, err)
	}
	t, err := h.Service.Update(c.Context(), c.Params("id"), in, img)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *TournamentHandler) Delete(c *fiber.Ctx) error {
	if err := h.Service.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "tournament deleted", "id": c.Params("id")})
}

func (h *TournamentHandler) UpdateParticipants(c *fiber.Ctx) error {
	var body struct {
		CurrentParticipants int `json:"current_participants"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	t, err := h.Service.UpdateParticipantCount(c.Context(), c.Params("id"), body.CurrentParticipants)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *TournamentHandler) Complete(c *fiber.Ctx) error {
	var body struct {
		Winner            string `json:"winner"`
		FinalParticipants *int   `json:"final_participants"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	t, err := h.Service.Complete(c.Context(), c.Params("id"), body.Winner, body.FinalParticipants)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *TournamentHandler) Cancel(c *fiber.Ctx) error {
	t, err := h.Service.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *TournamentHandler) ToggleActive(c *fiber.Ctx) error {
	t, err := h.Service.ToggleActive(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *TournamentHandler) ListPublic(c *fiber.Ctx) error {
	items, err := h.Service.ListPublic(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

func (h *TournamentHandler) ListPast(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	items, err := h.Service.ListPast(c.Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

func (h *TournamentHandler) List(c *fiber.Ctx) error {
	page, err := h.Service.List(c.Context(), services.TournamentListOptions{
		Search:   c.Query("search"),
		Status:   c.Query("status", "all"),
		Category: c.Query("category", "all"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}
