package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/db"
)

// Repository hands out human-readable order numbers, one counter per day.
type Repository interface {
	NextOrderNumber(ctx context.Context, q db.DBTX, at time.Time) (string, error)
}

type repo struct{}

// NewRepository creates a new order-number repository.
func NewRepository() Repository {
	return &repo{}
}

func (r *repo) NextOrderNumber(ctx context.Context, q db.DBTX, at time.Time) (string, error) {
	dayKey := at.UTC().Format("20060102")

	var seq int64
	if err := q.QueryRow(ctx, `
		INSERT INTO order_number_sequence (day_key, last_sequence, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (day_key)
		DO UPDATE SET last_sequence = order_number_sequence.last_sequence + 1, updated_at = NOW()
		RETURNING last_sequence
	`, dayKey).Scan(&seq); err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}

	return fmt.Sprintf("LMR-%s-%04d", dayKey, seq), nil
}
