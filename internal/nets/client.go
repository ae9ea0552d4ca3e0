package nets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const orderRequestPath = "/qr/dynamic/v1/order/request"

// GatewayError reports a non-2xx or unparsable reply from the switch.
type GatewayError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway: unexpected status %d", e.StatusCode)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Client issues signed order requests to the NETS switch.
type Client struct {
	rc      *resty.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	rc := resty.New().SetTimeout(30 * time.Second)
	return &Client{rc: rc, baseURL: baseURL}
}

// PlaceOrder posts the exact signed bytes to the switch. A single blocking
// attempt; retry policy is the caller's concern.
func (c *Client) PlaceOrder(ctx context.Context, body []byte, signature, keyID string) (*OrderResponse, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Sign", signature).
		SetHeader("KeyId", keyID).
		SetBody(body).
		Post(c.baseURL + orderRequestPath)
	if err != nil {
		return nil, fmt.Errorf("gateway: order request failed: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &GatewayError{StatusCode: resp.StatusCode(), Body: resp.Body()}
	}

	var order OrderResponse
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode(), Body: resp.Body(), Err: err}
	}
	return &order, nil
}
