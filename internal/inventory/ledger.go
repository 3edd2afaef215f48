package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/db"
)

var (
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
)

// Ledger performs the per-product stock mutations. Every method runs on a
// caller-owned transaction: the lifecycle engine scopes the whole multi-item
// reservation of a checkout to one tx, so a failure on any line rolls back
// decrements already applied for earlier lines.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Reserve decrements stock for one product as a single conditional update.
// Evaluation and application happen in one statement, so two concurrent
// reservations for the last unit cannot both succeed: the row predicate
// `stock >= qty` is re-checked under the row lock the UPDATE takes.
func (l *Ledger) Reserve(ctx context.Context, tx db.DBTX, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND is_available AND stock >= $2
	`, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// No row matched; figure out which caller-visible failure this is.
	var stock int
	var available bool
	err = tx.QueryRow(ctx, `
		SELECT stock, is_available FROM products WHERE id = $1
	`, productID).Scan(&stock, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("inspect stock: %w", err)
	}
	if !available {
		return ErrProductUnavailable
	}
	return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, stock)
}

// Release returns previously reserved stock. The caller guarantees it runs
// exactly once per reserved line, inside the same transaction that flips the
// order to CANCELED.
func (l *Ledger) Release(ctx context.Context, tx db.DBTX, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	_, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
	`, productID, quantity)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	return nil
}
