package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/pinlog/internal/app"
	"github.com/claude/pinlog/internal/models"
	"github.com/claude/pinlog/internal/view"
)

// HTTPClient implements DataSource by calling the pinlog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the log lives on the server (possibly reached over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// stateReply mirrors the server's state response.
type stateReply struct {
	Error    string       `json:"error"`
	Workouts []view.Entry `json:"workouts"`
}

// apiError is a non-2xx reply from the server.
type apiError struct {
	path   string
	status int
	msg    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("httpclient: %s returned %d: %s", e.path, e.status, e.msg)
}

// statusOf returns the HTTP status carried by err, or 0.
func statusOf(err error) int {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status
	}
	return 0
}

func (c *HTTPClient) send(ctx context.Context, method, path string, in any) (int, []byte, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// state sends a request answered with the view state and fails on any
// status other than 200.
func (c *HTTPClient) state(ctx context.Context, method, path string, in any) (*stateReply, error) {
	status, data, err := c.send(ctx, method, path, in)
	if err != nil {
		return nil, err
	}
	var reply stateReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	if status != http.StatusOK {
		return &reply, &apiError{path: path, status: status, msg: reply.Error}
	}
	return &reply, nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context) ([]models.Record, error) {
	status, data, err := c.send(ctx, http.MethodGet, "/api/v1/workouts", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &apiError{path: "/api/v1/workouts", status: status, msg: string(data)}
	}
	var recs []models.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return recs, nil
}

// LogWorkout starts the remote map at pos if it has not been started, then
// pins and submits. A rejected form is cancelled.
func (c *HTTPClient) LogWorkout(ctx context.Context, pos models.Coords, f app.Form) (view.Entry, error) {
	at := map[string]float64{"lat": pos.Lat, "lng": pos.Lng}

	_, err := c.state(ctx, http.MethodPost, "/api/v1/pin", at)
	if statusOf(err) == http.StatusConflict {
		if _, err := c.state(ctx, http.MethodPost, "/api/v1/start", at); err != nil {
			return view.Entry{}, err
		}
		_, err = c.state(ctx, http.MethodPost, "/api/v1/pin", at)
	}
	if err != nil {
		return view.Entry{}, err
	}

	reply, err := c.state(ctx, http.MethodPost, "/api/v1/workouts", f)
	if err != nil {
		var ae *apiError
		if errors.As(err, &ae) && ae.status == http.StatusUnprocessableEntity {
			c.state(ctx, http.MethodPost, "/api/v1/cancel", nil)
			return view.Entry{}, fmt.Errorf("%w: %s", app.ErrInvalidInput, ae.msg)
		}
		return view.Entry{}, err
	}
	if len(reply.Workouts) == 0 {
		return view.Entry{}, fmt.Errorf("httpclient: server returned no workouts after submit")
	}
	// newest first
	return reply.Workouts[0], nil
}

func (c *HTTPClient) DeleteWorkout(ctx context.Context, id int64) (bool, error) {
	_, err := c.state(ctx, http.MethodDelete, "/api/v1/workouts/"+strconv.FormatInt(id, 10), nil)
	if statusOf(err) == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *HTTPClient) ClearWorkouts(ctx context.Context) error {
	_, err := c.state(ctx, http.MethodDelete, "/api/v1/workouts", nil)
	return err
}
