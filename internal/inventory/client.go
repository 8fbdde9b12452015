package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/krsingh2254/flightbooking/config"
	"github.com/krsingh2254/flightbooking/internal/domain"
)

// FlightInventory is the contract the booking workflow needs from the remote
// flight-inventory service. No retries happen at this level.
type FlightInventory interface {
	GetFlight(ctx context.Context, flightID int64) (*domain.FlightSnapshot, error)
	SetAvailableSeats(ctx context.Context, flightID int64, newTotal int) (*domain.FlightSnapshot, error)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type flightPayload struct {
	ID             int64 `json:"id"`
	PriceCents     int64 `json:"price"`
	TotalSeats     int   `json:"totalSeats"`
	AvailableSeats int   `json:"availableSeats"`
}

type flightEnvelope struct {
	Data flightPayload `json:"data"`
}

type seatUpdateRequest struct {
	TotalSeats int `json:"totalSeats"`
}

func NewClient(cfg config.InventoryConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetFlight(ctx context.Context, flightID int64) (*domain.FlightSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.flightURL(flightID), nil)
	if err != nil {
		return nil, domain.NewError(domain.KindUpstream, "failed to build inventory request", err)
	}
	return c.do(req, flightID)
}

// SetAvailableSeats instructs the inventory service to set the flight's
// remaining seat count to newTotal. The value is absolute, so callers must
// serialize concurrent updates per flight.
func (c *Client) SetAvailableSeats(ctx context.Context, flightID int64, newTotal int) (*domain.FlightSnapshot, error) {
	body, err := json.Marshal(seatUpdateRequest{TotalSeats: newTotal})
	if err != nil {
		return nil, domain.NewError(domain.KindUpstream, "failed to encode seat update", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.flightURL(flightID), bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewError(domain.KindUpstream, "failed to build inventory request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, flightID)
}

func (c *Client) do(req *http.Request, flightID int64) (*domain.FlightSnapshot, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindUpstreamUnavailable, "inventory service is unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("flight %d not found", flightID), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, domain.NewError(domain.KindUpstream, fmt.Sprintf("inventory service returned status %d", resp.StatusCode), nil)
	}

	var envelope flightEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, domain.NewError(domain.KindUpstream, "failed to decode inventory response", err)
	}

	return &domain.FlightSnapshot{
		FlightID:       envelope.Data.ID,
		PriceCents:     envelope.Data.PriceCents,
		TotalSeats:     envelope.Data.TotalSeats,
		AvailableSeats: envelope.Data.AvailableSeats,
	}, nil
}

func (c *Client) flightURL(flightID int64) string {
	return fmt.Sprintf("%s/api/v1/flights/%d", c.baseURL, flightID)
}

var _ FlightInventory = (*Client)(nil)
