package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/primecut-foods/butchery-api/internal/core"
)

// Client sends order confirmations through a transactional mail HTTP API.
// It consumes the order's already-computed totals and never reprices.
type Client struct {
	baseURL    string
	token      string
	fromName   string
	fromEmail  string
	httpClient *http.Client
}

// NewClient creates a new mail client. An empty baseURL yields a disabled
// client whose sends succeed as no-ops, for environments without mail.
func NewClient(baseURL, token, fromName, fromEmail string) *Client {
	return &Client{
		baseURL:   baseURL,
		token:     token,
		fromName:  fromName,
		fromEmail: fromEmail,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type message struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	TextBody  string `json:"text_body"`
}

// SendOrderConfirmation renders an order summary and posts it to the mail API
func (c *Client) SendOrderConfirmation(ctx context.Context, order *core.Order, email string) error {
	if c.baseURL == "" {
		return nil
	}
	if email == "" {
		return fmt.Errorf("customer has no email address")
	}

	payload := message{
		FromName:  c.fromName,
		FromEmail: c.fromEmail,
		To:        email,
		Subject:   fmt.Sprintf("Your order %s", order.Code),
		TextBody:  renderOrderSummary(order),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	url := c.baseURL + "/messages"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

func renderOrderSummary(order *core.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", order.CustomerName)
	fmt.Fprintf(&b, "Your order %s has been delivered.\n\n", order.Code)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %.3g %s %s @ %.2f", item.Quantity, item.Unit, item.ProductName, item.UnitPrice)
		if item.Discount > 0 {
			fmt.Fprintf(&b, " (-%.0f%%)", item.Discount)
		}
		fmt.Fprintf(&b, " = %.2f\n", item.Total)
	}

	fmt.Fprintf(&b, "\nSubtotal: %.2f\n", order.Subtotal)
	if order.OrderDiscount > 0 {
		fmt.Fprintf(&b, "Order discount: %.0f%%\n", order.OrderDiscount)
	}
	fmt.Fprintf(&b, "Total: %.2f\n", order.Total)
	fmt.Fprintf(&b, "\nThank you for your order.\n")

	return b.String()
}
