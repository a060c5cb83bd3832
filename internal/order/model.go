package order

import "time"

const (
	StatusProcessing  = "processing"
	PaymentStatusPaid = "paid"
)

type ShippingAddress struct {
	FullName     string `db:"shipping_full_name"`
	AddressLine1 string `db:"shipping_address_line1"`
	AddressLine2 string `db:"shipping_address_line2"`
	City         string `db:"shipping_city"`
	State        string `db:"shipping_state"`
	ZipCode      string `db:"shipping_zip_code"`
	Phone        string `db:"shipping_phone"`
}

// OrderItem snapshots the product's name and unit price at purchase time.
// The snapshot must never be recomputed from the current product row.
type OrderItem struct {
	ID          int64   `db:"id"`
	OrderID     string  `db:"order_id"`
	ProductID   string  `db:"product_id"`
	ProductName string  `db:"product_name"`
	Quantity    int     `db:"quantity"`
	PriceAtTime float64 `db:"price_at_time"`
}

type Order struct {
	ID              string          `db:"id"`
	UserID          string          `db:"user_id"`
	Status          string          `db:"status"`
	TotalAmount     float64         `db:"total_amount"`
	ShippingAddress ShippingAddress `db:"-"`
	PaymentStatus   string          `db:"payment_status"`
	PaymentMethod   string          `db:"payment_method"`
	TrackingNumber  string          `db:"tracking_number"`
	Items           []OrderItem     `db:"-"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// ItemInput is a requested purchase line.
type ItemInput struct {
	ProductID string
	Quantity  int
}

type CreateInput struct {
	UserID          string
	PaymentMethod   string
	ShippingAddress ShippingAddress
	Items           []ItemInput
}
