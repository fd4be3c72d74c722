package repo

import (
	"database/sql"
	"time"

	"github.com/avmarkin/checkout-service/internal/entities"
)

type Order struct {
	OrderID       string    `db:"order_id"`
	CreatedAt     time.Time `db:"created_at"`
	PaymentStatus string    `db:"payment_status"`

	CustomerName  string         `db:"customer_name"`
	CustomerEmail string         `db:"customer_email"`
	CustomerPhone sql.NullString `db:"customer_phone"`
	Country       sql.NullString `db:"country"`
	City          sql.NullString `db:"city"`
	Address       sql.NullString `db:"address"`
	ZIP           sql.NullString `db:"zip"`

	PaymentIntentID   sql.NullString `db:"payment_intent_id"`
	CheckoutSessionID sql.NullString `db:"checkout_session_id"`
	PaidAt            sql.NullTime   `db:"paid_at"`
	PaidAmountCents   sql.NullInt64  `db:"paid_amount_cents"`
}

type OrderLine struct {
	OrderID     string         `db:"order_id"`
	ProductID   string         `db:"product_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Quantity    int            `db:"quantity"`
	UnitPrice   int64          `db:"unit_price"`
}

type CartItem struct {
	SessionID   string         `db:"session_id"`
	ProductID   string         `db:"product_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Quantity    int            `db:"quantity"`
	UnitPrice   int64          `db:"unit_price"`
}

func OrderLineToEntity(l OrderLine) entities.OrderLine {
	return entities.OrderLine{
		ProductID:   l.ProductID,
		Name:        l.Name,
		Description: nullStringToString(l.Description),
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
	}
}

func CartItemToEntity(i CartItem) entities.CartItem {
	return entities.CartItem{
		ProductID:   i.ProductID,
		Name:        i.Name,
		Description: nullStringToString(i.Description),
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
	}
}

func OrderToEntity(o Order, lines []OrderLine) entities.Order {
	order := entities.Order{
		OrderID:       o.OrderID,
		CreatedAt:     o.CreatedAt,
		PaymentStatus: entities.PaymentStatus(o.PaymentStatus),
		Customer: entities.Customer{
			Name:    o.CustomerName,
			Email:   o.CustomerEmail,
			Phone:   nullStringToString(o.CustomerPhone),
			Country: nullStringToString(o.Country),
			City:    nullStringToString(o.City),
			Address: nullStringToString(o.Address),
			ZIP:     nullStringToString(o.ZIP),
		},
		PaymentIntentID:   nullStringToString(o.PaymentIntentID),
		CheckoutSessionID: nullStringToString(o.CheckoutSessionID),
	}

	if o.PaidAt.Valid {
		order.PaidAt = o.PaidAt.Time
	}
	if o.PaidAmountCents.Valid {
		// в сущности сумма в мажорных единицах
		order.PaidAmount = float64(o.PaidAmountCents.Int64) / 100
	}

	if len(lines) > 0 {
		order.Lines = make([]entities.OrderLine, 0, len(lines))
		for _, l := range lines {
			order.Lines = append(order.Lines, OrderLineToEntity(l))
		}
	}

	return order
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
