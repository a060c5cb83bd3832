package order

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	ErrProductsInvalid  = errors.New("one or more products are invalid")
	ErrDuplicateOrderID = errors.New("order with this id already exists")
)

// InsufficientStockError names the first product whose stock cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for " + e.ProductName
}

type Repository interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

type lockedProduct struct {
	name  string
	price float64
	stock int
}

// Create places an order in a single transaction: the requested product rows
// are locked, validated as a whole, decremented, the order and its item
// snapshots are inserted, and the user's cart is cleared. Any failure rolls
// everything back.
func (r *postgresRepository) Create(ctx context.Context, input CreateInput) (ord *Order, err error) {
	orderID, trackingNumber, err := generateOrderIdentifiers()
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Error().Err(rbErr).Str("order_id", orderID).Msg("repository: failed to rollback order transaction")
			}
		}
	}()

	productIDs := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	// Locking in id order serializes concurrent placements touching the same
	// products, so two orders cannot both pass the stock check and decrement
	// past zero.
	lockQuery := `
		SELECT id, name, price, stock
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, lockQuery, productIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to lock products: %w", err)
	}

	products := make(map[string]lockedProduct)
	for rows.Next() {
		var id string
		var p lockedProduct
		if scanErr := rows.Scan(&id, &p.name, &p.price, &p.stock); scanErr != nil {
			rows.Close()
			err = fmt.Errorf("repository: failed to scan locked product: %w", scanErr)
			return nil, err
		}
		products[id] = p
	}
	rows.Close()
	if rowsErr := rows.Err(); rowsErr != nil {
		err = fmt.Errorf("repository: error iterating locked products: %w", rowsErr)
		return nil, err
	}

	if len(products) != len(input.Items) {
		err = ErrProductsInvalid
		return nil, err
	}

	for _, item := range input.Items {
		if products[item.ProductID].stock < item.Quantity {
			err = &InsufficientStockError{ProductName: products[item.ProductID].name}
			return nil, err
		}
	}

	now := time.Now().UTC()
	total := 0.0
	orderItems := make([]OrderItem, 0, len(input.Items))

	for _, item := range input.Items {
		p := products[item.ProductID]

		_, err = tx.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id = $1`, item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to decrement stock for product %s: %w", item.ProductID, err)
		}

		total += p.price * float64(item.Quantity)
		orderItems = append(orderItems, OrderItem{
			OrderID:     orderID,
			ProductID:   item.ProductID,
			ProductName: p.name,
			Quantity:    item.Quantity,
			PriceAtTime: p.price,
		})
	}

	newOrder := &Order{
		ID:              orderID,
		UserID:          input.UserID,
		Status:          StatusProcessing,
		TotalAmount:     math.Round(total*100) / 100,
		ShippingAddress: input.ShippingAddress,
		PaymentStatus:   PaymentStatusPaid,
		PaymentMethod:   input.PaymentMethod,
		TrackingNumber:  trackingNumber,
		Items:           orderItems,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	insertOrderQuery := `
		INSERT INTO orders (id, user_id, status, total_amount,
			shipping_full_name, shipping_address_line1, shipping_address_line2,
			shipping_city, shipping_state, shipping_zip_code, shipping_phone,
			payment_status, payment_method, tracking_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	addr := newOrder.ShippingAddress
	_, err = tx.Exec(ctx, insertOrderQuery,
		newOrder.ID,
		newOrder.UserID,
		newOrder.Status,
		newOrder.TotalAmount,
		addr.FullName,
		addr.AddressLine1,
		addr.AddressLine2,
		addr.City,
		addr.State,
		addr.ZipCode,
		addr.Phone,
		newOrder.PaymentStatus,
		newOrder.PaymentMethod,
		newOrder.TrackingNumber,
		newOrder.CreatedAt,
		newOrder.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			err = ErrDuplicateOrderID
			return nil, err
		}
		return nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	insertItemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price_at_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for i := range newOrder.Items {
		item := &newOrder.Items[i]
		err = tx.QueryRow(ctx, insertItemQuery,
			item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.PriceAtTime,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to insert order item for order %s: %w", orderID, err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to clear cart for user %s: %w", input.UserID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("repository: failed to commit order transaction: %w", err)
		return nil, err
	}

	return newOrder, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	ordersQuery := `
		SELECT id, user_id, status, total_amount,
			shipping_full_name, shipping_address_line1, shipping_address_line2,
			shipping_city, shipping_state, shipping_zip_code, shipping_phone,
			payment_status, payment_method, tracking_number, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	orderRows, err := r.db.Query(ctx, ordersQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user %s: %w", userID, err)
	}
	defer orderRows.Close()

	ordersMap := make(map[string]*Order)
	var orderIDs []string

	for orderRows.Next() {
		var o Order
		var addressLine2 *string
		err := orderRows.Scan(
			&o.ID,
			&o.UserID,
			&o.Status,
			&o.TotalAmount,
			&o.ShippingAddress.FullName,
			&o.ShippingAddress.AddressLine1,
			&addressLine2,
			&o.ShippingAddress.City,
			&o.ShippingAddress.State,
			&o.ShippingAddress.ZipCode,
			&o.ShippingAddress.Phone,
			&o.PaymentStatus,
			&o.PaymentMethod,
			&o.TrackingNumber,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for user %s: %w", userID, err)
		}
		if addressLine2 != nil {
			o.ShippingAddress.AddressLine2 = *addressLine2
		}
		o.Items = make([]OrderItem, 0)
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}
	if err := orderRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for user %s: %w", userID, err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	itemsQuery := `
		SELECT id, order_id, product_id, product_name, quantity, price_at_time
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	itemRows, err := r.db.Query(ctx, itemsQuery, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for user %s: %w", userID, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item OrderItem
		err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.PriceAtTime)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for user %s: %w", userID, err)
		}
		if o, ok := ordersMap[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for user %s: %w", userID, err)
	}

	orders := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *ordersMap[id])
	}

	return orders, nil
}

func generateOrderIdentifiers() (orderID, trackingNumber string, err error) {
	orderUUID, err := uuid.NewV4()
	if err != nil {
		return "", "", fmt.Errorf("repository: failed to generate order id: %w", err)
	}
	trackingUUID, err := uuid.NewV4()
	if err != nil {
		return "", "", fmt.Errorf("repository: failed to generate tracking number: %w", err)
	}

	orderID = "order-" + hex.EncodeToString(orderUUID.Bytes())[:10]
	trackingNumber = "TRK-" + strings.ToUpper(hex.EncodeToString(trackingUUID.Bytes())[:8])
	return orderID, trackingNumber, nil
}
