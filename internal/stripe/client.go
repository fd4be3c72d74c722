package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/avmarkin/checkout-service/internal/config"
	"github.com/avmarkin/checkout-service/internal/entities"
)

// CheckoutSession - подмножество полей checkout session, которое нам нужно.
// Структура общая для ответа API и объекта в вебхуке.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// MetadataOrderID - ключ метаданных сессии, через который вебхук
// соотносится с локальным заказом.
const MetadataOrderID = "order_id"

type GatewayError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway: %v", e.Err)
	}
	return fmt.Sprintf("payment gateway: status %d: %s", e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	currency   string
}

func NewClient(cfg config.Stripe) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		secretKey:  cfg.SecretKey,
		currency:   cfg.Currency,
	}
}

// CreateCheckoutSession создает hosted checkout session: по одному line item
// на строку заказа, order_id уходит в метаданные сессии. Один синхронный
// вызов, без повторов.
func (c *Client) CreateCheckoutSession(ctx context.Context, order entities.Order, successURL, cancelURL string) (CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set(fmt.Sprintf("metadata[%s]", MetadataOrderID), order.OrderID)

	for i, line := range order.Lines {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(line.Quantity))
		form.Set(prefix+"[price_data][currency]", c.currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(line.UnitPrice, 10))
		form.Set(prefix+"[price_data][product_data][name]", line.Name)
		if line.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", line.Description)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return CheckoutSession{}, &GatewayError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CheckoutSession{}, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return CheckoutSession{}, &GatewayError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return CheckoutSession{}, &GatewayError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return CheckoutSession{}, &GatewayError{StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if session.URL == "" {
		return CheckoutSession{}, &GatewayError{StatusCode: resp.StatusCode, Body: "response without session url"}
	}

	return session, nil
}
