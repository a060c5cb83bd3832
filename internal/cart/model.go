package cart

import (
	"time"

	"github.com/vasiliy-maslov/shop-backend/internal/catalog"
)

// CartItem is the stored row: at most one per (user, product) pair.
type CartItem struct {
	UserID    string    `db:"user_id"`
	ProductID string    `db:"product_id"`
	Quantity  int       `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
}

// Item is a cart line joined with the live product row. Price and stock are
// current values, not snapshots.
type Item struct {
	Product  catalog.Product
	Quantity int
}
