// Package gateway is the HTTP client for the remote student record store.
// The store is the authoritative source for every record; this app never
// holds state beyond the last successful fetch.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rosterdesk/app/models"
)

// Canonical sort keys accepted by the record store's list endpoint.
const (
	SortByName       = "name"
	SortByRollNumber = "roll_number"
	SortByClass      = "student_class"
	SortByMarks      = "marks"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortKeys lists the valid sort_by values, used to whitelist user input.
var SortKeys = []string{SortByName, SortByRollNumber, SortByClass, SortByMarks}

// ListQuery holds the optional parameters of a list request.
type ListQuery struct {
	SortBy   string
	Order    string
	Class    string
	MinMarks *int
	MaxMarks *int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Class != "" {
		v.Set("class", q.Class)
	}
	if q.MinMarks != nil {
		v.Set("min_marks", strconv.Itoa(*q.MinMarks))
	}
	if q.MaxMarks != nil {
		v.Set("max_marks", strconv.Itoa(*q.MaxMarks))
	}
	return v
}

// API is the gateway surface the views depend on. Satisfied by *Client and
// by test fakes.
type API interface {
	List(ctx context.Context, q ListQuery) ([]models.Student, error)
	Get(ctx context.Context, id string) (models.Student, error)
	Create(ctx context.Context, p models.StudentPayload) (models.Student, error)
	Update(ctx context.Context, id string, p models.StudentPayload) error
	Delete(ctx context.Context, id string) error
}

// Sentinel failures a view can branch on. Anything else server-reported
// comes back as *APIError carrying the server's own message.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("roll number already taken")
)

// APIError is a non-success response from the record store.
type APIError struct {
	Status  int
	Message string
	Details []string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("record store returned status %d", e.Status)
}

// envelope is the response wrapper used by every record store endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Detail  detail          `json:"detail,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// detail tolerates both wire shapes: a plain string or a list of {msg}
// objects.
type detail []string

func (d *detail) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = detail{s}
		return nil
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	for _, it := range items {
		*d = append(*d, it.Msg)
	}
	return nil
}

// Client talks to the record store over HTTP. The base URL is injected so
// tests can point it at a local stub.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the store at baseURL. A zero timeout
// disables the client-side deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches records matching q in the store's order.
func (c *Client) List(ctx context.Context, q ListQuery) ([]models.Student, error) {
	env, err := c.do(ctx, http.MethodGet, "/students", q.values(), nil)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	var students []models.Student
	if err := json.Unmarshal(env.Data, &students); err != nil {
		return nil, fmt.Errorf("record store: decoding student list: %w", err)
	}
	return students, nil
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, id string) (models.Student, error) {
	env, err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return models.Student{}, err
	}
	var st models.Student
	if err := json.Unmarshal(env.Data, &st); err != nil {
		return models.Student{}, fmt.Errorf("record store: decoding student: %w", err)
	}
	return st, nil
}

// Create submits a new record and returns it as stored, with its assigned id.
func (c *Client) Create(ctx context.Context, p models.StudentPayload) (models.Student, error) {
	env, err := c.do(ctx, http.MethodPost, "/students", nil, p)
	if err != nil {
		return models.Student{}, err
	}
	var st models.Student
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &st); err != nil {
			return models.Student{}, fmt.Errorf("record store: decoding created student: %w", err)
		}
	}
	return st, nil
}

// Update rewrites the record at id. The roll number is immutable, so it is
// stripped from the payload regardless of what the caller set.
func (c *Client) Update(ctx context.Context, id string, p models.StudentPayload) error {
	p.RollNumber = ""
	_, err := c.do(ctx, http.MethodPut, "/students/"+url.PathEscape(id), nil, p)
	return err
}

// Delete removes the record at id.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/students/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("record store: encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("record store: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("record store: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("record store: reading response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A malformed body on an error status still maps to a typed
		// failure below, so a decode failure only matters on success.
		if jerr := json.Unmarshal(raw, &env); jerr != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("record store: decoding response: %w", jerr)
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return nil, ErrConflict
	case resp.StatusCode >= 300 || !env.Success:
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message, Details: []string(env.Detail)}
	}
	return &env, nil
}
