// Package payment integrates the external card payment gateway used for
// service order checkout.
//
// The gateway exposes a REST API: a hosted checkout session is created
// server-side, the patient is redirected to its URL, and the session is
// retrieved again after redirect to confirm payment.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/medicore/config"
	"github.com/shashiranjanraj/medicore/pkg/apperr"
)

// Session is a hosted checkout session at the gateway.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"` // "unpaid" | "paid"
	AmountTotal   int64  `json:"amount_total"`   // minor currency units
	Currency      string `json:"currency"`
}

// Paid reports whether the gateway recorded a completed payment.
func (s *Session) Paid() bool { return s.PaymentStatus == "paid" }

// CreateSessionParams describes the line item for a new checkout session.
type CreateSessionParams struct {
	ProductName string
	// UnitAmount is the price per unit in minor currency units (cents).
	UnitAmount int64
	Quantity   int
	Currency   string
	SuccessURL string
	CancelURL  string
	// ClientReference carries our order ID for reconciliation.
	ClientReference string
}

// Gateway is the payment provider surface used by the checkout service.
// Tests substitute a fake implementation.
type Gateway interface {
	CreateSession(ctx context.Context, p CreateSessionParams) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
}

// Client talks to the real gateway over HTTPS with form-encoded requests.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient builds a gateway client from app config.
func NewClient() *Client {
	return &Client{
		baseURL:   strings.TrimRight(config.PaymentBaseURL(), "/"),
		secretKey: config.PaymentSecretKey(),
		http:      &http.Client{Timeout: config.PaymentTimeout()},
	}
}

// CreateSession opens a hosted checkout session for a single line item.
func (c *Client) CreateSession(ctx context.Context, p CreateSessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	form.Set("client_reference_id", p.ClientReference)
	form.Set("line_items[0][quantity]", strconv.Itoa(p.Quantity))
	form.Set("line_items[0][price_data][currency]", p.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.UnitAmount, 10))
	form.Set("line_items[0][price_data][product_data][name]", p.ProductName)

	var sess Session
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// RetrieveSession fetches the current state of an existing session.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperr.New(apperr.Validation, "session id is required")
	}

	var sess Session
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// gatewayError is the provider's JSON error envelope.
type gatewayError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "payment: build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperr.Wrap(apperr.Unavailable, "payment gateway response", err)
	}

	if resp.StatusCode >= 400 {
		var ge gatewayError
		_ = json.Unmarshal(raw, &ge)
		msg := ge.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("payment gateway returned %d", resp.StatusCode)
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return apperr.New(apperr.NotFound, "payment session not found")
		case resp.StatusCode >= 500:
			return apperr.Wrap(apperr.Unavailable, "payment gateway error", fmt.Errorf("%s", msg))
		default:
			return apperr.Wrap(apperr.Validation, msg, fmt.Errorf("gateway status %d", resp.StatusCode))
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperr.Wrap(apperr.Unavailable, "payment gateway response", err)
		}
	}
	return nil
}
