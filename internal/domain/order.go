package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodNone PaymentMethod = "NONE"
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodBank PaymentMethod = "BANK"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderDraft is what checkout submits: the selected lines plus resolved
// contact and shipping details. Phone is digits only; Address is the
// joined main//secondary form.
type OrderDraft struct {
	Lines          []CartLine    `json:"items"`
	FullName       string        `json:"full_name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Address        string        `json:"address"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	IdempotencyKey string        `json:"idempotency_key"`
}

type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type OrderResponse struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	Lines         []OrderLine   `json:"items"`
	Total         float64       `json:"total"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Address       string        `json:"address"`
	CreatedAt     time.Time     `json:"created_at"`
}

// PendingOrder is the minimal resumable state written before the browser
// leaves for the external payment page. Only the return URL's query
// parameters decide what happens to it.
type PendingOrder struct {
	Order     OrderResponse `json:"order"`
	WrittenAt time.Time     `json:"written_at"`
}

// OrderFilter narrows the customer-scoped order listing.
type OrderFilter struct {
	Search   string        `json:"search,omitempty"`
	Statuses []OrderStatus `json:"statuses,omitempty"`
	DateFrom *time.Time    `json:"date_from,omitempty"`
	Page     int           `json:"page,omitempty"`
	Size     int           `json:"size,omitempty"`
}
