package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strconv"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/config"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/http"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

// Client talks to the payment gateway's REST API.
type Client struct {
	cfg    config.PaymentsConfig
	http   *http.Client
	logger logger.Logger
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg config.PaymentsConfig, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   http.NewClient(config.GetDuration(cfg.Timeout)),
		logger: log,
	}
}

var _ Gateway = (*Client)(nil)

// CreateOnboardingLink requests a hosted onboarding URL for the artist.
func (c *Client) CreateOnboardingLink(ctx context.Context, artistID string) (*OnboardingLink, error) {
	body := map[string]string{
		"account":     artistID,
		"refresh_url": c.cfg.OnboardingRefresh,
		"return_url":  c.cfg.OnboardingReturn,
		"type":        "account_onboarding",
	}

	var link OnboardingLink
	if err := c.post(ctx, "/v1/account_links", body, &link); err != nil {
		return nil, errors.NewExternalGatewayError("onboarding link", err)
	}
	return &link, nil
}

// CreateCheckoutSession creates a hosted payment page. Metadata values are
// flattened to strings the way the gateway expects.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	body := map[string]interface{}{
		"mode":        "payment",
		"amount":      int64(req.Amount),
		"currency":    req.Currency,
		"description": req.Description,
		"success_url": c.cfg.CheckoutSuccess,
		"cancel_url":  c.cfg.CheckoutCancel,
		"metadata": map[string]string{
			"bookingId":     req.Metadata.BookingID,
			"applicationId": req.Metadata.ApplicationID,
			"artistId":      req.Metadata.ArtistID,
			"clientId":      req.Metadata.ClientID,
			"percent":       strconv.FormatInt(req.Metadata.Percent, 10),
		},
	}

	var session CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", body, &session); err != nil {
		return nil, errors.NewExternalGatewayError("checkout session", err)
	}

	c.logger.Info("checkout session created", map[string]interface{}{
		"sessionId": session.ID,
		"bookingId": req.Metadata.BookingID,
		"amount":    int64(req.Amount),
	})
	return &session, nil
}

// Payout transfers funds to an artist payout account.
func (c *Client) Payout(ctx context.Context, payoutAccountID string, amount models.Money, currency string) error {
	body := map[string]interface{}{
		"destination": payoutAccountID,
		"amount":      int64(amount),
		"currency":    currency,
	}

	if err := c.post(ctx, "/v1/transfers", body, nil); err != nil {
		return errors.NewExternalGatewayError("payout", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := nethttp.NewRequest(nethttp.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("gateway request %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode gateway response: %w", err)
		}
	}
	return nil
}
