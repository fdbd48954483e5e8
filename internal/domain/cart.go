package domain

// CartLine is one distinct (product, size) selection in the cart.
// Two lines are the same line iff ProductID and Size match.
type CartLine struct {
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name"`
	UnitPrice float64  `json:"unit_price"`
	Image     string   `json:"image,omitempty"`
	Size      string   `json:"size,omitempty"`
	Quantity  int      `json:"quantity"`
	Sizes     []string `json:"sizes,omitempty"`
}

// SameLine reports whether other selects the same product and size.
func (l CartLine) SameLine(other CartLine) bool {
	return l.ProductID == other.ProductID && l.Size == other.Size
}

// Subtotal is unit price times quantity.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
