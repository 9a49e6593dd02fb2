package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	ordererrors "github.com/swiftcart/swiftcart/internal/order/errors"
)

// PgStore is a PostgreSQL-backed implementation of the OrderStore interface.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of OrderStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

var _ OrderStore = (*PgStore)(nil)

const insertOrderSQL = `
    INSERT INTO orders (user_id, user_email, status, total)
    VALUES ($1, $2, $3, $4)
    RETURNING id, user_id, user_email, status, total, created_at, updated_at`

const insertOrderItemSQL = `
    INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, order_id, product_id, product_name, quantity, price`

const selectOrderSQL = `
    SELECT id, user_id, user_email, status, total, created_at, updated_at
    FROM orders
    WHERE id = $1 AND user_id = $2`

const selectOrderItemsSQL = `
    SELECT id, order_id, product_id, product_name, quantity, price
    FROM order_items
    WHERE order_id = $1
    ORDER BY id`

const selectUserOrdersSQL = `
    SELECT id, user_id, user_email, status, total, created_at, updated_at
    FROM orders
    WHERE user_id = $1
    ORDER BY created_at DESC`

const selectStatusForUpdateSQL = `
    SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`

const cancelOrderSQL = `
    UPDATE orders SET status = $3, updated_at = now()
    WHERE id = $1 AND user_id = $2 AND status = $4`

const updateStatusSQL = `
    UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`

func (p *PgStore) CreateOrder(ctx context.Context, order *Order, items []OrderItem) (*Order, []OrderItem, error) {
	var createdOrder Order
	var createdItems []OrderItem

	// Use transaction to ensure the header and all items land together
	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, insertOrderSQL, order.UserID, order.UserEmail, order.Status, order.Total)
		if err := scanOrder(row, &createdOrder); err != nil {
			return ordererrors.ErrCreateOrder
		}
		createdItems = make([]OrderItem, 0, len(items))
		for _, item := range items {
			row := tx.QueryRow(ctx, insertOrderItemSQL,
				createdOrder.ID, item.ProductID, item.ProductName, item.Quantity, item.Price)
			var created OrderItem
			if err := scanOrderItem(row, &created); err != nil {
				return ordererrors.ErrCreateOrderItem
			}
			createdItems = append(createdItems, created)
		}
		return nil
	})

	if txErr != nil {
		return nil, nil, txErr
	}

	return &createdOrder, createdItems, nil
}

func (p *PgStore) FindByID(ctx context.Context, id int64, userID string) (*Order, []OrderItem, error) {
	var order Order
	row := p.db.QueryRow(ctx, selectOrderSQL, id, userID)
	if err := scanOrder(row, &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ordererrors.ErrOrderNotFound
		}
		return nil, nil, ordererrors.ErrFailedToFindOrder
	}

	rows, err := p.db.Query(ctx, selectOrderItemsSQL, id)
	if err != nil {
		return nil, nil, ordererrors.ErrFailedToFindOrderItems
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		if err := scanOrderItem(rows, &item); err != nil {
			return nil, nil, ordererrors.ErrFailedToFindOrderItems
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, nil, ordererrors.ErrFailedToFindOrderItems
	}

	return &order, items, nil
}

func (p *PgStore) FindByUserID(ctx context.Context, userID string) ([]Order, error) {
	rows, err := p.db.Query(ctx, selectUserOrdersSQL, userID)
	if err != nil {
		return nil, ordererrors.ErrFailedToFindUserOrders
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var order Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, ordererrors.ErrFailedToFindUserOrders
		}
		orders = append(orders, order)
	}
	if rows.Err() != nil {
		return nil, ordererrors.ErrFailedToFindUserOrders
	}

	return orders, nil
}

func (p *PgStore) Cancel(ctx context.Context, id int64, userID string) error {
	return p.withTransaction(ctx, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, selectStatusForUpdateSQL, id, userID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ordererrors.ErrOrderNotFound
			}
			return ordererrors.ErrFailedToFindOrder
		}
		if status != StatusPending {
			return ordererrors.ErrOrderNotCancellable
		}
		tag, err := tx.Exec(ctx, cancelOrderSQL, id, userID, StatusCancelled, StatusPending)
		if err != nil {
			return ordererrors.ErrUpdateOrderStatus
		}
		if tag.RowsAffected() == 0 {
			return ordererrors.ErrOrderNotCancellable
		}
		return nil
	})
}

func (p *PgStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := p.db.Exec(ctx, updateStatusSQL, id, status)
	if err != nil {
		return ordererrors.ErrUpdateOrderStatus
	}
	if tag.RowsAffected() == 0 {
		return ordererrors.ErrOrderNotFound
	}
	return nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return ordererrors.ErrTransactionBegin
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return ordererrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return ordererrors.ErrTransactionCommit
	}

	return nil
}

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
}

func scanOrderItem(row pgx.Row, i *OrderItem) error {
	return row.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.ProductName, &i.Quantity, &i.Price)
}
