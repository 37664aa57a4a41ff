package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
)

// SettlementNotice informs the payout distribution system that a drawing
// has been settled. The call sits outside the settlement transaction and
// must never block or fail it.
type SettlementNotice struct {
	DrawingID    string    `json:"drawingId"`
	DrawingDate  time.Time `json:"drawingDate"`
	TotalPayout  float64   `json:"totalPayout"`
	HouseRevenue float64   `json:"houseRevenue"`
}

// Gateway represents the external payout/house-revenue collaborator.
type Gateway interface {
	NotifySettlement(ctx context.Context, notice SettlementNotice) error
}

// HTTPGateway posts settlement notices to a remote distribution service.
type HTTPGateway struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// NewHTTPGateway creates a gateway against the given base URL.
func NewHTTPGateway(baseURL, apiKey string) Gateway {
	return &HTTPGateway{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifySettlement posts the notice to the distribution endpoint.
func (g *HTTPGateway) NotifySettlement(ctx context.Context, notice SettlementNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to encode settlement notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/settlements", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build settlement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("settlement notification failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("settlement notification rejected: status %d", resp.StatusCode)
	}
	return nil
}

// MockGateway logs settlement notices instead of delivering them.
type MockGateway struct{}

// NewMockGateway creates a mock payout gateway for development and tests.
func NewMockGateway() Gateway {
	return &MockGateway{}
}

// NotifySettlement logs the notice and succeeds.
func (g *MockGateway) NotifySettlement(ctx context.Context, notice SettlementNotice) error {
	slog.Info("mock settlement notification",
		"drawingId", notice.DrawingID, "totalPayout", notice.TotalPayout, "houseRevenue", notice.HouseRevenue)
	return nil
}
