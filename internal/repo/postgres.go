package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	// Получаем заказ
	query, args := r.qb.Select(
		"order_id", "created_at", "payment_status",
		"customer_name", "customer_email", "customer_phone",
		"country", "city", "address", "zip",
		"payment_intent_id", "checkout_session_id", "paid_at", "paid_amount_cents").
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	// Получаем строки заказа
	query, args = r.qb.Select(
		"order_id", "product_id", "name", "description", "quantity", "unit_price").
		From("order_lines").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("product_id").
		MustSql()

	var lines []OrderLine
	err = r.selectContext(ctx, &lines, query, args...)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order lines: %w", err)
	}

	return OrderToEntity(order, lines), nil
}

// CreateOrder идемпотентна за счет ON CONFLICT DO NOTHING
func (r *postgresRepo) CreateOrder(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns(
			"order_id", "created_at", "payment_status",
			"customer_name", "customer_email", "customer_phone",
			"country", "city", "address", "zip",
		).
		Values(
			o.OrderID, o.CreatedAt, string(o.PaymentStatus),
			o.Customer.Name, o.Customer.Email, nullString(o.Customer.Phone),
			nullString(o.Customer.Country), nullString(o.Customer.City),
			nullString(o.Customer.Address), nullString(o.Customer.ZIP),
		).
		Suffix("ON CONFLICT (order_id) DO NOTHING").
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	if len(o.Lines) == 0 {
		return nil
	}

	q := r.qb.Insert("order_lines").
		Columns("order_id", "product_id", "name", "description", "quantity", "unit_price").
		Suffix("ON CONFLICT (order_id, product_id) DO NOTHING")

	for _, line := range o.Lines {
		q = q.Values(
			o.OrderID,
			line.ProductID,
			line.Name,
			nullString(line.Description),
			line.Quantity,
			line.UnitPrice,
		)
	}

	query, args = q.MustSql()
	_, err = r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save order lines: %w", err)
	}
	return nil
}

// MarkOrderPaid - единственный переход pending -> paid. Условие по статусу
// в WHERE сериализует конкурентные доставки вебхука: выигрывает ровно одна,
// остальные получают rows affected = 0.
func (r *postgresRepo) MarkOrderPaid(ctx context.Context, orderID string, c entities.PaidConfirmation) (bool, error) {
	query, args := r.qb.Update("orders").
		Set("payment_status", string(entities.PaymentStatusPaid)).
		Set("payment_intent_id", c.PaymentIntentID).
		Set("checkout_session_id", c.CheckoutSessionID).
		Set("paid_at", c.PaidAt).
		Set("paid_amount_cents", c.AmountTotal).
		Where(sq.Eq{
			"order_id":       orderID,
			"payment_status": string(entities.PaymentStatusPending),
		}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *postgresRepo) GetCart(ctx context.Context, sessionID string) ([]entities.CartItem, error) {
	query, args := r.qb.Select(
		"session_id", "product_id", "name", "description", "quantity", "unit_price").
		From("carts").
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("product_id").
		MustSql()

	var items []CartItem
	err := r.selectContext(ctx, &items, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select cart items: %w", err)
	}

	result := make([]entities.CartItem, 0, len(items))
	for _, it := range items {
		result = append(result, CartItemToEntity(it))
	}
	return result, nil
}

func (r *postgresRepo) ClearCart(ctx context.Context, sessionID string) error {
	query, args := r.qb.Delete("carts").
		Where(sq.Eq{"session_id": sessionID}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
