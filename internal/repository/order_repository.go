package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/nikolayk812/beautyshop/internal/port"
)

const orderColumns = `id, status, customer, items, total_amount::text, total_currency,
	payment_method, card_last4, mpesa_phone, transaction_id, paid_at, created_at, updated_at`

type orderRepository struct {
	q    querier
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewOrder(pool *pgxpool.Pool) (port.OrderRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &orderRepository{
		q:    pool,
		pool: pool,
		now:  time.Now,
	}, nil
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    tx,
		pool: nil, // use provided transaction instead
		now:  time.Now,
	}
}

func (r *orderRepository) CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	if err := draft.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("draft.Validate: %w", err)
	}

	order := domain.NewOrder(domain.NewOrderID(), draft, r.now().UTC())

	row, err := mapOrderToRow(order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapOrderToRow: %w", err)
	}

	dbRow := r.q.QueryRow(ctx, `
		INSERT INTO orders (id, status, customer, items, total_amount, total_currency,
			payment_method, card_last4, mpesa_phone, transaction_id, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING `+orderColumns,
		row.ID, row.Status, row.Customer, row.Items, row.TotalAmount, row.TotalCurrency,
		row.PaymentMethod, row.CardLast4, row.MpesaPhone, row.TransactionID, row.PaidAt, row.CreatedAt)

	created, err := scanOrder(dbRow)
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.InsertOrder: %w", err)
	}

	return created, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("orderID is empty")
	}

	order, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.Order, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at DESC, id DESC`, string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("q.ListOrders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("orderID is empty")
	}
	status, err := domain.ParseOrderStatus(string(status))
	if err != nil {
		return domain.Order{}, err
	}

	return withTx(ctx, r.pool, r.q, func(q querier) (domain.Order, error) {
		var currentStatus string
		err := q.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&currentStatus)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
		}
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.LockOrder: %w", err)
		}

		current := domain.OrderStatus(currentStatus)
		if current != status && !current.CanTransitionTo(status) {
			return domain.Order{}, fmt.Errorf("order[%s] %s -> %s: %w", orderID, current, status, domain.ErrIllegalTransition)
		}

		order, err := scanOrder(q.QueryRow(ctx, `
			UPDATE orders SET status = $2, updated_at = $3
			WHERE id = $1
			RETURNING `+orderColumns, orderID, string(status), r.now().UTC()))
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.UpdateStatus: %w", err)
		}

		return order, nil
	})
}
