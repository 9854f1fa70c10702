// Package suggest talks to the external joint suggestion service.
//
// The service receives a sample of grouped vertex positions plus a
// free-text animation description and answers with a small set of
// suggested joint positions. Nothing unvalidated leaves this package:
// responses are checked against the expected shape and converted to
// internal types at this boundary.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/thenamesdyl/animation-poc/internal/logger"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

// ExpectedJointCount is the contract target for a suggestion response.
// Other counts >= 1 are accepted with a warning; the synthesizer works
// with any of them.
const ExpectedJointCount = 4

// ServiceError reports a transport failure or a non-success status.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("suggestion service returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("suggestion service unreachable: %s", e.Message)
}

// ResponseShapeError reports a response body that did not parse as the
// expected array of points.
type ResponseShapeError struct {
	Reason string
}

func (e *ResponseShapeError) Error() string {
	return fmt.Sprintf("malformed suggestion response: %s", e.Reason)
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type request struct {
	Points []point `json:"points"`
	Prompt string  `json:"prompt"`
}

// Client is an HTTP client for the suggestion service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Suggest posts the sampled points and animation prompt and returns the
// suggested joint positions. Failures are typed: *ServiceError for
// transport/status problems, *ResponseShapeError for unparseable or
// empty bodies.
func (c *Client) Suggest(ctx context.Context, sample []math.Vec3, prompt string) ([]math.Vec3, error) {
	reqBody := request{
		Points: make([]point, len(sample)),
		Prompt: prompt,
	}
	for i, p := range sample {
		reqBody.Points[i] = point{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/suggest-joints", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("requesting joint suggestions",
		zap.Int("sample_points", len(sample)),
		zap.Int("prompt_len", len(prompt)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ServiceError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ServiceError{Status: resp.StatusCode, Message: string(body)}
	}

	var joints []point
	if err := json.NewDecoder(resp.Body).Decode(&joints); err != nil {
		return nil, &ResponseShapeError{Reason: err.Error()}
	}
	if len(joints) == 0 {
		return nil, &ResponseShapeError{Reason: "empty joint array"}
	}
	if len(joints) != ExpectedJointCount {
		logger.Warn("unexpected joint count in suggestion response",
			zap.Int("got", len(joints)),
			zap.Int("expected", ExpectedJointCount),
		)
	}

	out := make([]math.Vec3, len(joints))
	for i, j := range joints {
		out[i] = math.Vec3{X: float32(j.X), Y: float32(j.Y), Z: float32(j.Z)}
	}
	return out, nil
}
