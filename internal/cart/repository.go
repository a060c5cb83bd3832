package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrItemNotFound = errors.New("cart item not found")

type Repository interface {
	ItemsByUser(ctx context.Context, userID string) ([]Item, error)
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Delete(ctx context.Context, userID, productID string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ItemsByUser(ctx context.Context, userID string) ([]Item, error) {
	query := `
		SELECT p.id, p.category_id, p.name, p.slug, p.description, p.price, p.stock, p.image_url, p.featured,
		       ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at, ci.product_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart items for user %s: %w", userID, err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		p := &item.Product
		err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.Featured,
			&item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart item for user %s: %w", userID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cart items for user %s: %w", userID, err)
	}

	return items, nil
}

// Upsert inserts a new line or adds quantity to an existing one. The
// cumulative quantity is deliberately not clamped.
func (r *postgresRepository) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	if _, err := r.db.Exec(ctx, query, userID, productID, quantity); err != nil {
		return fmt.Errorf("repository: failed to upsert cart item for user %s: %w", userID, err)
	}

	return nil
}

func (r *postgresRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE user_id = $1 AND product_id = $2
	`

	cmdTag, err := r.db.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("repository: failed to update cart item for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete removes the line if present. A missing line is not an error.
func (r *postgresRepository) Delete(ctx context.Context, userID, productID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	if _, err := r.db.Exec(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("repository: failed to delete cart item for user %s: %w", userID, err)
	}

	return nil
}
