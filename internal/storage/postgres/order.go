package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evermart/shop-api/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, user_id, first_name, last_name, phone_number, district, city, address,
		 payment_method, transaction_id, delivery_charge, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12)`

	createOrderItemSQL = `INSERT INTO order_items (order_id, product_id, title, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`

	listOrdersByUserSQL = `SELECT id, user_id, first_name, last_name, phone_number, district, city, address,
		payment_method, COALESCE(transaction_id, ''), delivery_charge, total, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	listOrderItemsSQL = `SELECT order_id, product_id, title, quantity, unit_price, line_total
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order header and its line items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, createOrderSQL,
			o.ID, o.UserID, o.FirstName, o.LastName, o.PhoneNumber,
			o.District, o.City, o.Address, o.PaymentMethod, o.TransactionID,
			o.DeliveryCharge, o.Total,
		)
		if err != nil {
			return err
		}
		for _, it := range o.Items {
			_, err := tx.Exec(ctx, createOrderItemSQL,
				o.ID, it.ProductID, it.Title, it.Quantity, it.UnitPrice, it.LineTotal,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// ListByUser returns the user's orders with their items, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = &orders[i]
	}

	itemRows, err := r.pool.Query(ctx, listOrderItemsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	err = func() error {
		defer itemRows.Close()
		for itemRows.Next() {
			var (
				orderID uuid.UUID
				it      order.Item
			)
			if err := itemRows.Scan(&orderID, &it.ProductID, &it.Title, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
				return err
			}
			if o, ok := index[orderID]; ok {
				o.Items = append(o.Items, it)
			}
		}
		return itemRows.Err()
	}()
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.FirstName, &o.LastName, &o.PhoneNumber,
		&o.District, &o.City, &o.Address, &o.PaymentMethod, &o.TransactionID,
		&o.DeliveryCharge, &o.Total, &o.CreatedAt,
	)
	return o, err
}
