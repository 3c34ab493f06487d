package students

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"rosterdesk/app/gateway"
	"rosterdesk/app/models"
	"rosterdesk/app/validation"
)

// studentRequest is the JSON body accepted by the create and update
// endpoints. Marks is a pointer so "missing" and "zero" stay distinct.
type studentRequest struct {
	Name         string `json:"name"`
	RollNumber   string `json:"roll_number"`
	StudentClass string `json:"student_class"`
	Marks        *int   `json:"marks"`
	Gender       string `json:"gender"`
	Contact      string `json:"contact"`
}

func (r studentRequest) form() validation.StudentForm {
	form := validation.StudentForm{
		Name:         r.Name,
		RollNumber:   r.RollNumber,
		StudentClass: r.StudentClass,
		Gender:       r.Gender,
		Contact:      r.Contact,
	}
	if r.Marks != nil {
		form.Marks = strconv.Itoa(*r.Marks)
	}
	form.Normalize()
	return form
}

// ListAPI returns the roster as JSON, honoring the same sort and filter
// parameters as the list page.
func (h *Handler) ListAPI(c *fiber.Ctx) error {
	students, err := h.gw.List(c.UserContext(), listQuery(c))
	if err != nil {
		return h.apiError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"students": students,
		"count":    len(students),
	})
}

// GetAPI returns a single record by id.
func (h *Handler) GetAPI(c *fiber.Ctx) error {
	st, err := h.gw.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.apiError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "student": st})
}

// CreateAPI creates a record after running the same validation rules as the
// create form, including the advisory roll-number pre-check.
func (h *Handler) CreateAPI(c *fiber.Ctx) error {
	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}
	form := req.form()

	snapshot, err := h.gw.List(c.UserContext(), gateway.ListQuery{})
	if err != nil {
		h.log.WithError(err).Warn("uniqueness snapshot fetch failed, skipping pre-check")
	}
	if errs := validation.CheckNewStudent(form, snapshot); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errors": errs})
	}

	st, err := h.gw.Create(c.UserContext(), models.StudentPayload{
		Name:         form.Name,
		RollNumber:   form.RollNumber,
		StudentClass: form.StudentClass,
		Marks:        form.MarksValue(),
		Gender:       form.Gender,
		Contact:      form.Contact,
	})
	if err != nil {
		return h.apiError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "student": st})
}

// UpdateAPI rewrites a record; the roll number is not an accepted field.
func (h *Handler) UpdateAPI(c *fiber.Ctx) error {
	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}
	form := req.form()

	if errs := validation.CheckStudent(form); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errors": errs})
	}

	err := h.gw.Update(c.UserContext(), c.Params("id"), models.StudentPayload{
		Name:         form.Name,
		StudentClass: form.StudentClass,
		Marks:        form.MarksValue(),
		Gender:       form.Gender,
		Contact:      form.Contact,
	})
	if err != nil {
		return h.apiError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Student updated"})
}

// DeleteAPI removes a record by id.
func (h *Handler) DeleteAPI(c *fiber.Ctx) error {
	if err := h.gw.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.apiError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Student deleted"})
}

// apiError maps gateway failures onto JSON responses, preserving the
// server's message and status where it provided one.
func (h *Handler) apiError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": gateway.UserMessage(err)})
	case errors.Is(err, gateway.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": gateway.UserMessage(err),
			"errors":  validation.FieldErrors{"roll_number": "roll number already taken"},
		})
	}
	h.log.WithError(err).Error("record store request failed")
	status := fiber.StatusBadGateway
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 {
		status = apiErr.Status
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "message": gateway.UserMessage(err)})
}
