// Package summary serves the read-only analytics dashboard: every figure on
// it is derived from a fresh fetch of the full roster, nothing is mutated
// from here.
package summary

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"rosterdesk/app/gateway"
	"rosterdesk/app/stats"
)

type Handler struct {
	gw  gateway.API
	log *logrus.Logger
}

func NewHandler(gw gateway.API, log *logrus.Logger) *Handler {
	return &Handler{gw: gw, log: log}
}

// Setup registers the summary page and API routes.
func Setup(app *fiber.App, h *Handler) {
	app.Get("/summary", h.Page)
	app.Get("/api/summary", h.API)
}

// histogramBar is one histogram row sized for rendering: Percent scales the
// largest bucket to full width.
type histogramBar struct {
	Label   string
	Count   int
	Percent int
}

// classBar compares class averages; marks live on a 0-100 scale so the
// average doubles as the bar width.
type classBar struct {
	Class   string
	Average float64
	Percent int
}

func histogramBars(s stats.Summary) []histogramBar {
	max := 0
	for _, b := range s.Histogram {
		if b.Count > max {
			max = b.Count
		}
	}
	bars := make([]histogramBar, 0, len(s.Histogram))
	for _, b := range s.Histogram {
		pct := 0
		if max > 0 {
			pct = b.Count * 100 / max
		}
		bars = append(bars, histogramBar{Label: b.Label, Count: b.Count, Percent: pct})
	}
	return bars
}

func classBars(s stats.Summary) []classBar {
	bars := make([]classBar, 0, len(s.Classes))
	for _, g := range s.Classes {
		bars = append(bars, classBar{Class: g.Class, Average: g.Average, Percent: int(g.Average)})
	}
	return bars
}

// Page fetches the full roster sorted by marks descending and renders the
// derived statistics.
func (h *Handler) Page(c *fiber.Ctx) error {
	students, err := h.gw.List(c.UserContext(), gateway.ListQuery{
		SortBy: gateway.SortByMarks,
		Order:  gateway.OrderDesc,
	})
	var errMsg string
	if err != nil {
		h.log.WithError(err).Error("fetching roster for summary failed")
		errMsg = gateway.UserMessage(err)
	}

	s := stats.Summarize(students)
	return c.Render("summary/index", fiber.Map{
		"Title":       "Summary - RosterDesk",
		"CurrentPage": "summary",
		"Summary":     s,
		"Histogram":   histogramBars(s),
		"ClassBars":   classBars(s),
		"Error":       errMsg,
	})
}

// API returns the same derived statistics as JSON.
func (h *Handler) API(c *fiber.Ctx) error {
	students, err := h.gw.List(c.UserContext(), gateway.ListQuery{
		SortBy: gateway.SortByMarks,
		Order:  gateway.OrderDesc,
	})
	if err != nil {
		h.log.WithError(err).Error("fetching roster for summary failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": gateway.UserMessage(err),
		})
	}
	return c.JSON(fiber.Map{"success": true, "summary": stats.Summarize(students)})
}
