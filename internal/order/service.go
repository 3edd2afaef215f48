package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/catalog"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/db"
)

var (
	ErrInvalidItems         = errors.New("invalid order items")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Catalog is the read-only product lookup the engine consults during
// checkout. Stock mutation goes through the Ledger, never through here.
type Catalog interface {
	GetProductTx(ctx context.Context, q db.DBTX, id string) (catalog.Product, error)
}

type Ledger interface {
	Reserve(ctx context.Context, tx db.DBTX, productID string, quantity int) error
	Release(ctx context.Context, tx db.DBTX, productID string, quantity int) error
}

type Sequencer interface {
	NextOrderNumber(ctx context.Context, q db.DBTX, at time.Time) (string, error)
}

// AuditRecorder is best-effort: implementations swallow their own failures.
type AuditRecorder interface {
	RecordAction(ctx context.Context, actorID, action, subject, detail string)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *Order) error
	PublishOrderCompleted(ctx context.Context, o *Order) error
	PublishOrderCanceled(ctx context.Context, o *Order) error
}

// Service is the order lifecycle engine: it turns checkout requests into
// stock-backed orders and drives every later status transition.
type Service struct {
	db      TxBeginner
	repo    Repository
	catalog Catalog
	ledger  Ledger
	seq     Sequencer
	audit   AuditRecorder
	events  EventPublisher
	log     *logrus.Logger

	ttl time.Duration
	now func() time.Time
}

func NewService(
	txdb TxBeginner,
	repo Repository,
	cat Catalog,
	ledger Ledger,
	seq Sequencer,
	audit AuditRecorder,
	events EventPublisher,
	logger *logrus.Logger,
	ttl time.Duration,
) *Service {
	return &Service{
		db:      txdb,
		repo:    repo,
		catalog: cat,
		ledger:  ledger,
		seq:     seq,
		audit:   audit,
		events:  events,
		log:     logger,
		ttl:     ttl,
		now:     time.Now,
	}
}

type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderInput struct {
	UserID        string         `json:"-"`
	Items         []CheckoutItem `json:"items"`
	PaymentMethod string         `json:"paymentMethod"`
}

// CreateOrder validates a checkout request, reserves stock for every line,
// and persists the order, all inside one transaction. If anything fails
// (including an insufficient line late in the list) every decrement already
// applied rolls back; no partial reservation survives.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidItems)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidItems)
	}
	seen := make(map[string]struct{}, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" {
			return nil, fmt.Errorf("%w: missing product id", ErrInvalidItems)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", ErrInvalidItems, it.ProductID)
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %s", ErrInvalidItems, it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
	}

	method, ok := ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, in.PaymentMethod)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := s.now().UTC()

	o := &Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		PaymentMethod: method,
		PaymentStatus: PaymentPending,
		OrderStatus:   StatusPending,
		CreatedAt:     now,
	}
	if method == MethodTransfer {
		// Settlement is trusted as declared; no verification step.
		o.PaymentStatus = PaymentCompleted
		o.OrderStatus = StatusProcessed
	} else {
		deadline := now.Add(s.ttl)
		o.ExpiresAt = &deadline
	}

	for _, line := range in.Items {
		p, err := s.catalog.GetProductTx(ctx, tx, line.ProductID)
		if err != nil {
			return nil, err
		}

		if err := s.ledger.Reserve(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}

		subtotal := p.Price * int64(line.Quantity)
		o.Items = append(o.Items, Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			Subtotal:    subtotal,
		})
		o.TotalAmount += subtotal
	}

	number, err := s.seq.NextOrderNumber(ctx, tx, now)
	if err != nil {
		return nil, err
	}
	o.OrderNumber = number

	if err := s.repo.InsertTx(ctx, tx, o); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"user_id":      o.UserID,
		"method":       o.PaymentMethod,
		"total":        o.TotalAmount,
	}).Info("order created")

	s.publish(ctx, "order.created", func(c context.Context) error {
		return s.events.PublishOrderCreated(c, o)
	})

	return o, nil
}

// ConfirmPayment applies an operator-requested payment transition. Target
// COMPLETED is only legal for a pending pay-on-delivery order; target
// CANCELED routes through the cancellation path so stock is restituted.
func (s *Service) ConfirmPayment(ctx context.Context, orderID string, target PaymentStatus, actor string) (*Order, error) {
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch target {
	case PaymentCompleted:
		if current.PaymentMethod != MethodCOD {
			return nil, fmt.Errorf("%w: %s orders settle at checkout", ErrInvalidTransition, current.PaymentMethod)
		}
		if current.PaymentStatus != PaymentPending {
			return nil, fmt.Errorf("%w: payment is already %s", ErrInvalidTransition, current.PaymentStatus)
		}

		applied, err := s.repo.MarkPaymentCompleted(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !applied {
			// Lost the race against a cancellation (or a concurrent confirm).
			return nil, fmt.Errorf("%w: order is no longer pending", ErrInvalidTransition)
		}

		updated, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		s.log.WithFields(logrus.Fields{
			"order_id": orderID,
			"actor":    actor,
		}).Info("payment confirmed")

		s.recordAudit(ctx, actor, "payment.confirm", orderID,
			fmt.Sprintf("payment for order %s marked COMPLETED", updated.OrderNumber))
		s.publish(ctx, "order.completed", func(c context.Context) error {
			return s.events.PublishOrderCompleted(c, updated)
		})

		return updated, nil

	case PaymentCanceled:
		return s.cancel(ctx, orderID, actor)

	default:
		return nil, fmt.Errorf("%w: cannot move payment to %s", ErrInvalidTransition, target)
	}
}

// CancelOrder cancels a pending order and returns its stock to the ledger.
// Calling it again on an already-canceled order is a no-op that does not
// release stock a second time.
func (s *Service) CancelOrder(ctx context.Context, orderID, actor string) (*Order, error) {
	return s.cancel(ctx, orderID, actor)
}

func (s *Service) cancel(ctx context.Context, orderID, actor string) (*Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	applied, err := s.repo.CancelTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if !applied {
		// Either the order does not exist, was already canceled (no-op), or
		// is processed (no cancellation from a terminal state).
		current, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if current.OrderStatus == StatusCanceled {
			return current, nil
		}
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, current.OrderStatus)
	}

	// Release inside the same transaction that flipped the status: the
	// conditional update above matched, so this runs exactly once per order.
	items, err := s.repo.ItemsTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := s.ledger.Release(ctx, tx, it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": orderID,
		"actor":    actor,
	}).Info("order canceled")

	s.recordAudit(ctx, actor, "order.cancel", orderID,
		fmt.Sprintf("order %s canceled, %d item(s) restocked", updated.OrderNumber, len(items)))
	s.publish(ctx, "order.canceled", func(c context.Context) error {
		return s.events.PublishOrderCanceled(c, updated)
	})

	return updated, nil
}

// ListExpiredUnpaidOrders returns orders whose deadline passed before asOf
// and which are still pending on both status machines.
func (s *Service) ListExpiredUnpaidOrders(ctx context.Context, asOf time.Time) ([]Order, error) {
	return s.repo.ListExpiredUnpaid(ctx, asOf)
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, orderID)
}

func (s *Service) ListOrdersByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) recordAudit(ctx context.Context, actor, action, subject, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.RecordAction(ctx, actor, action, subject, detail)
}

func (s *Service) publish(ctx context.Context, event string, fn func(context.Context) error) {
	if s.events == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.log.WithError(err).WithField("event", event).Warn("publish event failed")
	}
}
