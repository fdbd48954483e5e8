package domain

import "time"

type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Category    string   `json:"category,omitempty"`
	InStock     bool     `json:"in_stock"`
}

// ProductFilter narrows the catalog listing. A new fetch with a different
// filter replaces the cached page wholesale.
type ProductFilter struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	Page     int    `json:"page,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// Page is the paginated content shape the remote API returns for listings.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	Number        int   `json:"number"`
}

type Feedback struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	OrderID   int64     `json:"order_id,omitempty"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment,omitempty"`
	ImageURLs string    `json:"image_urls,omitempty"` // comma-joined
	CreatedAt time.Time `json:"created_at"`
}
