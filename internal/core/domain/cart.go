package domain

// CartLine is one line of the server-authoritative cart. Product name,
// image and unit price are snapshotted by the server at add-time; the
// subtotal is server-computed.
type CartLine struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	ImageURL    string  `json:"imageUrl"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// Cart is the client's cached copy of the server cart. It is replaced
// wholesale after every mutation; totals are never recomputed client-side,
// so server pricing and tax rules can change without the cache drifting.
type Cart struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	TotalAmount float64    `json:"totalAmount"`
	Lines       []CartLine `json:"items"`
}

// ItemCount is the only derived value the client computes from a cart: the
// sum of line quantities, used for badge display.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// AddToCartRequest is the payload for POST /cart/items.
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

// UpdateCartLineRequest is the payload for PUT /cart/items/{lineId}.
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}
