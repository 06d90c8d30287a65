package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"solcam/internal/domain/geo"
)

// AgentLocator fetches the device position from the capture device's
// location agent, the small companion endpoint that owns the OS permission
// prompt. One-shot, high accuracy, no internal retry: the agent blocks
// until it has a fix or its own timeout fires.
//
// Agent contract:
//   - GET {base}/location?accuracy=highest
//   - 200 -> {"latitude": <float>, "longitude": <float>}
//   - 403 -> foreground permission denied
//   - anything else (or no answer in time) -> no fix available
type AgentLocator struct {
	client  *http.Client
	baseURL string
}

var _ geo.Locator = (*AgentLocator)(nil)

func NewAgentLocator(baseURL string) *AgentLocator {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	return &AgentLocator{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

type locationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l *AgentLocator) Current(ctx context.Context) (geo.Coordinates, error) {
	if l == nil || l.baseURL == "" {
		return geo.Coordinates{}, fmt.Errorf("location agent endpoint not configured")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		l.baseURL+"/location?accuracy=highest",
		nil,
	)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		// timeouts and connection failures both mean "no fix"
		log.Printf("[location] agent request failed: %v", err)
		if errors.Is(err, context.Canceled) {
			return geo.Coordinates{}, err
		}
		return geo.Coordinates{}, geo.ErrUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return geo.Coordinates{}, geo.ErrPermissionDenied
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		log.Printf("[location] agent status=%d", resp.StatusCode)
		return geo.Coordinates{}, geo.ErrUnavailable
	}

	var body locationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Coordinates{}, fmt.Errorf("decode location response: %w", err)
	}

	return geo.Coordinates{
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	}, nil
}
