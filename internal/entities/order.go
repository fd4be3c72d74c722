package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	// failed объявлен для полноты перечисления, переходов в него пока нет
	PaymentStatusFailed PaymentStatus = "failed"
)

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Country string
	City    string
	Address string
	ZIP     string
}

// OrderLine фиксирует цену товара на момент оформления заказа.
// UnitPrice хранится в минорных единицах валюты (центах).
type OrderLine struct {
	ProductID   string
	Name        string
	Description string
	Quantity    int
	UnitPrice   int64
}

type Order struct {
	OrderID   string
	CreatedAt time.Time

	Customer Customer
	Lines    []OrderLine

	PaymentStatus PaymentStatus

	// Заполняются ровно один раз, при подтверждении оплаты
	PaymentIntentID   string
	CheckoutSessionID string
	PaidAt            time.Time
	PaidAmount        float64
}

// PaidConfirmation - подтвержденные провайдером данные платежа.
// AmountTotal в минорных единицах.
type PaidConfirmation struct {
	PaymentIntentID   string
	CheckoutSessionID string
	AmountTotal       int64
	PaidAt            time.Time
}

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order data")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrPaymentInit   = errors.New("payment could not be initiated")
)

func (o Order) Total() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(o)
}

func init() {
	gob.Register(Order{})
	gob.Register(Customer{})
	gob.Register(OrderLine{})
}
