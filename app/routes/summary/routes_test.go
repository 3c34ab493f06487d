package summary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosterdesk/app/gateway"
	"rosterdesk/app/models"
	"rosterdesk/app/stats"
)

type fakeGateway struct {
	listFn func(ctx context.Context, q gateway.ListQuery) ([]models.Student, error)
}

func (f *fakeGateway) List(ctx context.Context, q gateway.ListQuery) ([]models.Student, error) {
	return f.listFn(ctx, q)
}
func (f *fakeGateway) Get(ctx context.Context, id string) (models.Student, error) {
	return models.Student{}, gateway.ErrNotFound
}
func (f *fakeGateway) Create(ctx context.Context, p models.StudentPayload) (models.Student, error) {
	return models.Student{}, errors.New("unexpected Create call")
}
func (f *fakeGateway) Update(ctx context.Context, id string, p models.StudentPayload) error {
	return errors.New("unexpected Update call")
}
func (f *fakeGateway) Delete(ctx context.Context, id string) error {
	return errors.New("unexpected Delete call")
}

func newTestApp(t *testing.T, gw gateway.API) *fiber.App {
	t.Helper()
	engine := html.New("../../templates", ".html")
	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
	})
	log := logrus.New()
	log.SetOutput(io.Discard)
	Setup(app, NewHandler(gw, log))
	return app
}

func roster() []models.Student {
	return []models.Student{
		{ID: "1", Name: "Ann", RollNumber: "R1", StudentClass: "A", Marks: models.NewMarks(90)},
		{ID: "2", Name: "Bob", RollNumber: "R2", StudentClass: "A", Marks: models.NewMarks(70)},
		{ID: "3", Name: "Cid", RollNumber: "R3", StudentClass: "B", Marks: models.NewMarks(50)},
	}
}

func TestPageRendersDerivedFigures(t *testing.T) {
	var got gateway.ListQuery
	gw := &fakeGateway{
		listFn: func(ctx context.Context, q gateway.ListQuery) ([]models.Student, error) {
			got = q
			return roster(), nil
		},
	}
	app := newTestApp(t, gw)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/summary", nil), 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gateway.SortByMarks, got.SortBy, "summary always fetches by marks descending")
	assert.Equal(t, gateway.OrderDesc, got.Order)

	assert.Contains(t, body, "70.0", "overall average")
	assert.Contains(t, body, "Ann", "top scorer")
	assert.Contains(t, body, "Cid", "lowest scorer")
	assert.Contains(t, body, "80-100", "histogram labels present")
}

func TestPageSurvivesGatewayFailure(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context, q gateway.ListQuery) ([]models.Student, error) {
			return nil, errors.New("connection refused")
		},
	}
	app := newTestApp(t, gw)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/summary", nil), 5000)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "Could not reach the record store")
}

func TestSummaryAPI(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context, q gateway.ListQuery) ([]models.Student, error) {
			return roster(), nil
		},
	}
	app := newTestApp(t, gw)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/summary", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Success bool          `json:"success"`
		Summary stats.Summary `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, 3, out.Summary.Total)
	assert.Equal(t, 70.0, out.Summary.Average)
	require.Len(t, out.Summary.Classes, 2)
}

func TestSummaryAPIFailure(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context, q gateway.ListQuery) ([]models.Student, error) {
			return nil, &gateway.APIError{Status: 500, Message: "store exploded"}
		},
	}
	app := newTestApp(t, gw)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/summary", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "store exploded", out["message"])
}

func TestHistogramBarsScaleToLargestBucket(t *testing.T) {
	s := stats.Summarize(roster())
	bars := histogramBars(s)

	require.Len(t, bars, 5)
	byLabel := map[string]histogramBar{}
	for _, b := range bars {
		byLabel[b.Label] = b
	}
	assert.Equal(t, 100, byLabel["80-100"].Percent)
	assert.Equal(t, 0, byLabel["0-19"].Percent)
}

func TestHistogramBarsEmptySummary(t *testing.T) {
	bars := histogramBars(stats.Summarize(nil))
	for _, b := range bars {
		assert.Equal(t, 0, b.Percent)
		assert.Equal(t, 0, b.Count)
	}
}
