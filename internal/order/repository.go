package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"potosi-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Tx is the write side of a checkout: both inserts share one transaction.
type Tx interface {
	InsertOrder(ctx context.Context, o *Order) error
	InsertOrderItems(ctx context.Context, orderID string, items []Item) error
}

type Repository interface {
	// WithTx runs fn in a transaction, committing only if fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	SetPaymentSession(ctx context.Context, orderID, paymentSessionID string) error
	MarkPaid(ctx context.Context, orderID string) (*Order, error)
	MarkCanceled(ctx context.Context, orderID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// ValidID reports whether id is a canonical UUID. Anything else makes
// Postgres reject the query with 22P02, so callers treat it as not found.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

type txRepository struct {
	tx *sql.Tx
}

func (r *repository) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txRepository{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *txRepository) InsertOrder(ctx context.Context, o *Order) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, cart_session_id, status, payment_method,
			customer_name, customer_email, shipping_address,
			subtotal, shipping_fee, tax, total
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`,
		o.UserID,
		o.CartSessionID,
		o.Status,
		o.PaymentMethod,
		o.CustomerName,
		o.CustomerEmail,
		o.ShippingAddress,
		o.Subtotal.StringFixed(2),
		o.ShippingFee.StringFixed(2),
		o.Tax.StringFixed(2),
		o.Total.StringFixed(2),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert order", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedCreate, err)
	}
	return nil
}

// InsertOrderItems writes all items with one multi-row INSERT.
func (t *txRepository) InsertOrderItems(ctx context.Context, orderID string, items []Item) error {
	if len(items) == 0 {
		return ErrNoOrderItems
	}

	const cols = 5
	placeholders := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*cols)

	for i, item := range items {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, orderID, item.ListingID, item.Name, item.Quantity, item.Price.StringFixed(2))
	}

	query := `INSERT INTO order_items (order_id, listing_id, name, quantity, price) VALUES ` +
		strings.Join(placeholders, ",")

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert order items",
			zap.String("order_id", orderID),
			zap.Int("count", len(items)),
			zap.Error(err),
		)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation {
			return fmt.Errorf("%w: %w", ErrFailedCreateItem, ErrUnknownListing)
		}
		return fmt.Errorf("%w: %v", ErrFailedCreateItem, err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetByID"),
		zap.String("order_id", orderID),
	)

	if !ValidID(orderID) {
		log.Info("malformed order id")
		return nil, ErrOrderNotFound
	}

	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, cart_session_id, status, payment_method,
			customer_name, customer_email, shipping_address,
			subtotal, shipping_fee, tax, total, payment_session_id,
			created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.CartSessionID, &o.Status, &o.PaymentMethod,
		&o.CustomerName, &o.CustomerEmail, &o.ShippingAddress,
		&o.Subtotal, &o.ShippingFee, &o.Tax, &o.Total, &o.PaymentSessionID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to scan order", zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, listing_id, name, quantity, price
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		log.Error("failed to query order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ListingID, &item.Name, &item.Quantity, &item.Price); err != nil {
			log.Error("failed to scan order item", zap.Error(err))
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) SetPaymentSession(ctx context.Context, orderID, paymentSessionID string) error {
	if !ValidID(orderID) {
		return ErrOrderNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_session_id = $1, updated_at = NOW() WHERE id = $2`,
		paymentSessionID, orderID)
	if err != nil {
		return fmt.Errorf("failed to set payment session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkPaid moves a pending order to paid. A second delivery finds nothing to
// update and gets ErrOrderNotPending.
func (r *repository) MarkPaid(ctx context.Context, orderID string) (*Order, error) {
	if !ValidID(orderID) {
		return nil, ErrOrderNotFound
	}
	o := Order{ID: orderID, Status: StatusPaid}
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING cart_session_id, updated_at
	`, StatusPaid, orderID, StatusPending).Scan(&o.CartSessionID, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return &o, nil
}

func (r *repository) MarkCanceled(ctx context.Context, orderID string) error {
	if !ValidID(orderID) {
		return ErrOrderNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, StatusCanceled, orderID, StatusPending)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotPending
	}
	return nil
}
