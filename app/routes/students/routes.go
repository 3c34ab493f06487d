package students

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"rosterdesk/app/gateway"
	"rosterdesk/app/models"
	"rosterdesk/app/validation"
)

// Handler serves the student pages and API. It owns no state beyond its
// gateway client; every page load fetches fresh from the record store.
type Handler struct {
	gw  gateway.API
	log *logrus.Logger
}

func NewHandler(gw gateway.API, log *logrus.Logger) *Handler {
	return &Handler{gw: gw, log: log}
}

// Setup registers the student pages and API routes.
func Setup(app *fiber.App, h *Handler) {
	pages := app.Group("/students")
	pages.Get("/", h.IndexPage)
	pages.Get("/new", h.NewPage)
	pages.Post("/new", h.Create)
	pages.Get("/:id/edit", h.EditPage)
	pages.Post("/:id/edit", h.Update)
	pages.Post("/:id/delete", h.Delete)

	api := app.Group("/api/students")
	api.Get("/", h.ListAPI)
	api.Get("/:id", h.GetAPI)
	api.Post("/", h.CreateAPI)
	api.Put("/:id", h.UpdateAPI)
	api.Delete("/:id", h.DeleteAPI)
}

// listQuery builds the gateway query from the request, whitelisting the sort
// key and direction. Malformed marks bounds are ignored rather than fatal.
func listQuery(c *fiber.Ctx) gateway.ListQuery {
	q := gateway.ListQuery{
		SortBy: gateway.SortByName,
		Order:  gateway.OrderAsc,
		Class:  c.Query("class"),
	}
	requested := c.Query("sort_by")
	for _, key := range gateway.SortKeys {
		if requested == key {
			q.SortBy = key
			break
		}
	}
	if c.Query("order") == gateway.OrderDesc {
		q.Order = gateway.OrderDesc
	}
	if v, err := strconv.Atoi(c.Query("min_marks")); err == nil {
		q.MinMarks = &v
	}
	if v, err := strconv.Atoi(c.Query("max_marks")); err == nil {
		q.MaxMarks = &v
	}
	return q
}

// sortLinks computes, per column, the list URL a header click should lead
// to: same column toggles direction, a new column starts ascending. Filters
// are preserved across reloads.
func sortLinks(q gateway.ListQuery) map[string]string {
	links := make(map[string]string, len(gateway.SortKeys))
	for _, key := range gateway.SortKeys {
		order := gateway.OrderAsc
		if key == q.SortBy && q.Order == gateway.OrderAsc {
			order = gateway.OrderDesc
		}
		v := url.Values{}
		v.Set("sort_by", key)
		v.Set("order", order)
		if q.Class != "" {
			v.Set("class", q.Class)
		}
		if q.MinMarks != nil {
			v.Set("min_marks", strconv.Itoa(*q.MinMarks))
		}
		if q.MaxMarks != nil {
			v.Set("max_marks", strconv.Itoa(*q.MaxMarks))
		}
		links[key] = "/students?" + v.Encode()
	}
	return links
}

// IndexPage renders the roster list with the requested sort and filters.
// A failed fetch keeps the page usable: it renders an empty list plus the
// error message and the user can retry by reloading.
func (h *Handler) IndexPage(c *fiber.Ctx) error {
	q := listQuery(c)

	var errMsg string
	students, err := h.gw.List(c.UserContext(), q)
	if err != nil {
		h.log.WithError(err).Error("listing students failed")
		errMsg = gateway.UserMessage(err)
	}

	return c.Render("students/index", fiber.Map{
		"Title":       "Students - RosterDesk",
		"CurrentPage": "students",
		"Students":    students,
		"Count":       len(students),
		"SortBy":      q.SortBy,
		"Order":       q.Order,
		"Class":       q.Class,
		"MinMarks":    c.Query("min_marks"),
		"MaxMarks":    c.Query("max_marks"),
		"SortLinks":   sortLinks(q),
		"Error":       errMsg,
		"Notice":      c.Query("notice"),
		"Flash":       c.Query("error"),
	})
}

// NewPage renders the empty create form.
func (h *Handler) NewPage(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, formState{Mode: "create"})
}

// Create handles the create-form submission. Validation failures block the
// gateway request entirely; a conflict marks the roll-number field and keeps
// the other values for retry.
func (h *Handler) Create(c *fiber.Ctx) error {
	var form validation.StudentForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderForm(c, fiber.StatusBadRequest, formState{
			Mode: "create", Message: "Invalid form submission.",
		})
	}
	form.Normalize()

	// Advisory pre-check only; a fetch failure here must not block the
	// submission because the store's conflict response is authoritative.
	snapshot, err := h.gw.List(c.UserContext(), gateway.ListQuery{})
	if err != nil {
		h.log.WithError(err).Warn("uniqueness snapshot fetch failed, skipping pre-check")
	}

	if errs := validation.CheckNewStudent(form, snapshot); len(errs) > 0 {
		return h.renderForm(c, fiber.StatusBadRequest, formState{
			Mode: "create", Values: form, Errors: errs,
		})
	}

	payload := models.StudentPayload{
		Name:         form.Name,
		RollNumber:   form.RollNumber,
		StudentClass: form.StudentClass,
		Marks:        form.MarksValue(),
		Gender:       form.Gender,
		Contact:      form.Contact,
	}
	st, err := h.gw.Create(c.UserContext(), payload)
	if err != nil {
		return h.renderCreateError(c, form, err)
	}

	h.log.WithFields(logrus.Fields{"id": st.ID, "roll_number": st.RollNumber}).Info("student created")
	return h.renderForm(c, fiber.StatusOK, formState{
		Mode:     "create",
		Success:  fmt.Sprintf("Student %s created.", form.Name),
		Redirect: "/students",
	})
}

func (h *Handler) renderCreateError(c *fiber.Ctx, form validation.StudentForm, err error) error {
	if errors.Is(err, gateway.ErrConflict) {
		return h.renderForm(c, fiber.StatusConflict, formState{
			Mode:   "create",
			Values: form,
			Errors: validation.FieldErrors{"roll_number": "roll number already taken"},
		})
	}
	h.log.WithError(err).Error("creating student failed")
	return h.renderForm(c, fiber.StatusBadGateway, formState{
		Mode: "create", Values: form, Message: gateway.UserMessage(err),
	})
}

// EditPage pre-fills the form from a fetch-by-id. The roll number is shown
// read-only; it cannot change once assigned.
func (h *Handler) EditPage(c *fiber.Ctx) error {
	id := c.Params("id")
	st, err := h.gw.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return fiber.ErrNotFound
		}
		h.log.WithError(err).Error("fetching student failed")
		return fiber.NewError(fiber.StatusBadGateway, gateway.UserMessage(err))
	}

	return h.renderForm(c, fiber.StatusOK, formState{
		Mode: "edit",
		ID:   st.ID,
		Values: validation.StudentForm{
			Name:         st.Name,
			RollNumber:   st.RollNumber,
			StudentClass: st.StudentClass,
			Marks:        st.Marks.String(),
			Gender:       string(st.Gender),
			Contact:      st.Contact,
		},
	})
}

// Update handles the edit-form submission. The roll number is never part of
// the update payload.
func (h *Handler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var form validation.StudentForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderForm(c, fiber.StatusBadRequest, formState{
			Mode: "edit", ID: id, Message: "Invalid form submission.",
		})
	}
	form.Normalize()

	if errs := validation.CheckStudent(form); len(errs) > 0 {
		return h.renderForm(c, fiber.StatusBadRequest, formState{
			Mode: "edit", ID: id, Values: form, Errors: errs,
		})
	}

	payload := models.StudentPayload{
		Name:         form.Name,
		StudentClass: form.StudentClass,
		Marks:        form.MarksValue(),
		Gender:       form.Gender,
		Contact:      form.Contact,
	}
	if err := h.gw.Update(c.UserContext(), id, payload); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return fiber.ErrNotFound
		}
		h.log.WithError(err).Error("updating student failed")
		return h.renderForm(c, fiber.StatusBadGateway, formState{
			Mode: "edit", ID: id, Values: form, Message: gateway.UserMessage(err),
		})
	}

	h.log.WithField("id", id).Info("student updated")
	return h.renderForm(c, fiber.StatusOK, formState{
		Mode:     "edit",
		ID:       id,
		Values:   form,
		Success:  fmt.Sprintf("Student %s updated.", form.Name),
		Redirect: "/students",
	})
}

// Delete removes a record and reloads the list. The confirmation step lives
// in the list page, which names the record before this POST is made.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.gw.Delete(c.UserContext(), id); err != nil {
		h.log.WithError(err).Error("deleting student failed")
		return c.Redirect("/students?error=" + url.QueryEscape(gateway.UserMessage(err)))
	}
	h.log.WithField("id", id).Info("student deleted")
	return c.Redirect("/students?notice=" + url.QueryEscape("Record deleted."))
}

// formState is everything the student form template needs.
type formState struct {
	Mode     string // "create" or "edit"
	ID       string
	Values   validation.StudentForm
	Errors   validation.FieldErrors
	Message  string // request-level failure, preserved values
	Success  string // acknowledgment after a successful submit
	Redirect string // where to navigate shortly after success
}

func (h *Handler) renderForm(c *fiber.Ctx, status int, state formState) error {
	title := "New Student - RosterDesk"
	if state.Mode == "edit" {
		title = "Edit Student - RosterDesk"
	}
	return c.Status(status).Render("students/form", fiber.Map{
		"Title":       title,
		"CurrentPage": "students",
		"Mode":        state.Mode,
		"ID":          state.ID,
		"Values":      state.Values,
		"Errors":      state.Errors,
		"Message":     state.Message,
		"Success":     state.Success,
		"Redirect":    state.Redirect,
		"Genders":     models.Genders,
	})
}
