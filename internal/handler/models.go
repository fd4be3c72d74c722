package handler

import (
	"time"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/internal/service"
)

// CheckoutRequest - форма оформления заказа
type CheckoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
	ZIP     string `json:"zip"`
}

// Order представляет заказ
type Order struct {
	OrderID       string      `json:"order_id"`
	CreatedAt     time.Time   `json:"created_at"`
	PaymentStatus string      `json:"payment_status"`
	Customer      Customer    `json:"customer"`
	Lines         []OrderLine `json:"lines,omitempty"`

	PaymentIntentID   string     `json:"payment_intent_id,omitempty"`
	CheckoutSessionID string     `json:"checkout_session_id,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	PaidAmount        float64    `json:"paid_amount,omitempty"`
}

// Customer данные покупателя
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
	ZIP     string `json:"zip,omitempty"`
}

// OrderLine строка заказа, unit_price в минорных единицах
type OrderLine struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// CallbackResponse - информационный ответ страниц возврата с провайдера
type CallbackResponse struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

// WebhookResponse подтверждает провайдеру прием события
type WebhookResponse struct {
	Received bool `json:"received"`
}

func CheckoutRequestToForm(r CheckoutRequest) service.CheckoutForm {
	return service.CheckoutForm{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Country: r.Country,
		City:    r.City,
		Address: r.Address,
		ZIP:     r.ZIP,
	}
}

func CustomerEntityToJSON(c entities.Customer) Customer {
	return Customer{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Country: c.Country,
		City:    c.City,
		Address: c.Address,
		ZIP:     c.ZIP,
	}
}

func OrderLineEntityToJSON(l entities.OrderLine) OrderLine {
	return OrderLine{
		ProductID:   l.ProductID,
		Name:        l.Name,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineEntityToJSON(l))
	}

	order := Order{
		OrderID:           o.OrderID,
		CreatedAt:         o.CreatedAt,
		PaymentStatus:     string(o.PaymentStatus),
		Customer:          CustomerEntityToJSON(o.Customer),
		Lines:             lines,
		PaymentIntentID:   o.PaymentIntentID,
		CheckoutSessionID: o.CheckoutSessionID,
		PaidAmount:        o.PaidAmount,
	}

	if !o.PaidAt.IsZero() {
		paidAt := o.PaidAt
		order.PaidAt = &paidAt
	}

	return order
}
