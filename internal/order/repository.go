package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/db"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	InsertTx(ctx context.Context, tx db.DBTX, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListExpiredUnpaid(ctx context.Context, asOf time.Time) ([]Order, error)
	ItemsTx(ctx context.Context, tx db.DBTX, orderID string) ([]Item, error)
	MarkPaymentCompleted(ctx context.Context, orderID string) (bool, error)
	CancelTx(ctx context.Context, tx db.DBTX, orderID string) (bool, error)
}

type PostgresRepository struct {
	pool db.DBTX
}

func NewPostgresRepository(pool db.DBTX) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// InsertTx persists an order and its items on the caller's transaction.
// The caller commits after stock has been reserved, so order and
// reservation land (or roll back) together.
func (r *PostgresRepository) InsertTx(ctx context.Context, tx db.DBTX, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, user_id, total_amount, payment_method, payment_status, order_status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.OrderNumber, o.UserID, o.TotalAmount, o.PaymentMethod, o.PaymentStatus, o.OrderStatus, o.CreatedAt, o.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = o.ID

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, it.ID, it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_number, user_id, total_amount, payment_method, payment_status, order_status, created_at, expires_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.TotalAmount, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus, &o.CreatedAt, &o.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.ItemsTx(ctx, r.pool, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `
		SELECT id, order_number, user_id, total_amount, payment_method, payment_status, order_status, created_at, expires_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, userID)
}

// ListExpiredUnpaid returns orders past their deadline still pending on both
// status machines. Pure read; the sweeper drives the cancellations.
func (r *PostgresRepository) ListExpiredUnpaid(ctx context.Context, asOf time.Time) ([]Order, error) {
	return r.list(ctx, `
		SELECT id, order_number, user_id, total_amount, payment_method, payment_status, order_status, created_at, expires_at
		FROM orders
		WHERE expires_at IS NOT NULL
		  AND expires_at < $1
		  AND payment_status = 'PENDING'
		  AND order_status = 'PENDING'
		ORDER BY expires_at, id
	`, asOf)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.TotalAmount, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus, &o.CreatedAt, &o.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		items, err := r.ItemsTx(ctx, r.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *PostgresRepository) ItemsTx(ctx context.Context, tx db.DBTX, orderID string) ([]Item, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}

// MarkPaymentCompleted flips a pending order to COMPLETED/PROCESSED. The
// write is conditional on payment_status still being PENDING so it cannot
// race a concurrent cancellation; the loser sees applied == false.
func (r *PostgresRepository) MarkPaymentCompleted(ctx context.Context, orderID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET payment_status = 'COMPLETED', order_status = 'PROCESSED'
		WHERE id = $1 AND payment_status = 'PENDING'
	`, orderID)
	if err != nil {
		return false, fmt.Errorf("mark payment completed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CancelTx flips a pending order to CANCELED on the caller's transaction.
// Conditional on order_status still being PENDING: a second cancellation, or
// one racing a payment confirmation, matches no row and reports applied ==
// false, and the caller skips the stock release.
func (r *PostgresRepository) CancelTx(ctx context.Context, tx db.DBTX, orderID string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET payment_status = 'CANCELED', order_status = 'CANCELED'
		WHERE id = $1 AND order_status = 'PENDING'
	`, orderID)
	if err != nil {
		return false, fmt.Errorf("cancel order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
