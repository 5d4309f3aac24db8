package cart

import "github.com/shopspring/decimal"

// LineItem is one artwork in the cart.
type LineItem struct {
	ItemID     string          `json:"itemId"`
	Title      string          `json:"title"`
	ArtistName string          `json:"artistName"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	ImageURL   string          `json:"imageUrl"`
	Quantity   int             `json:"quantity"`
}

// Stats summarizes the cart for display.
type Stats struct {
	ItemCount     int             `json:"itemCount"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

// ArtworkQuantity is the per-artwork shape the payment workflow accepts.
type ArtworkQuantity struct {
	ArtworkID string `json:"artworkId"`
	Quantity  int    `json:"quantity"`
}

// Snapshot is the checkout handoff: a pure read of the cart in the
// shape the payment workflow consumes. The cart itself is cleared only
// after payment submission succeeds.
type Snapshot struct {
	Artworks    []ArtworkQuantity `json:"artworks"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
}
