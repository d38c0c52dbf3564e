// Package razorpay talks to a Razorpay-compatible orders API.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/metrics"

	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds every gateway call
const DefaultTimeout = 15 * time.Second

// Order is the gateway reply to an order creation
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client creates orders and verifies payment signatures
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

// NewClient creates a gateway client. A zero timeout uses DefaultTimeout.
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: timeout},
	}
}

// KeyID is the public key handed to the checkout widget
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order of amount minor units
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamFailure("razorpay")
		return nil, fmt.Errorf("%w: create order: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read order reply: %v", domain.ErrGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordUpstreamFailure("razorpay")
		msg := gjson.GetBytes(body, "error.description").String()
		return nil, fmt.Errorf("%w: create order status %d %s", domain.ErrGateway, resp.StatusCode, msg)
	}

	reply := gjson.ParseBytes(body)
	order := &Order{
		ID:       reply.Get("id").String(),
		Amount:   reply.Get("amount").Int(),
		Currency: reply.Get("currency").String(),
		Receipt:  reply.Get("receipt").String(),
		Status:   reply.Get("status").String(),
	}
	if order.ID == "" {
		metrics.RecordUpstreamFailure("razorpay")
		return nil, fmt.Errorf("%w: order reply has no id", domain.ErrGateway)
	}
	return order, nil
}

// Sign returns the hex HMAC-SHA256 of orderID|paymentID under the key secret
func (c *Client) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares signature with the expected lowercase hex digest
// in constant time
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := c.Sign(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
