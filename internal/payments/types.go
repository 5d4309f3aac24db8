package payments

import "github.com/shopspring/decimal"

// ArtworkLineInput is one purchased artwork in a checkout submission.
type ArtworkLineInput struct {
	ArtworkID string `json:"artworkId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreatePaymentInput is the checkout payload: buyer details, the proof
// image and the cart snapshot.
type CreatePaymentInput struct {
	Name          string             `json:"name" validate:"required"`
	Address       string             `json:"address" validate:"required"`
	Email         string             `json:"email" validate:"required,email"`
	ContactNumber string             `json:"contactNumber" validate:"required"`
	Image         string             `json:"image" validate:"required"`
	TotalAmount   decimal.Decimal    `json:"totalAmount" validate:"required"`
	Artworks      []ArtworkLineInput `json:"artworks" validate:"required,min=1,dive"`
}

// UpdatePaymentInput carries a partial update of the buyer details.
// Blank fields keep the stored value.
type UpdatePaymentInput struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Email         string `json:"email" validate:"omitempty,email"`
	ContactNumber string `json:"contactNumber"`
	Image         string `json:"image"`
}

// UpdateStatusInput moves a payment through its lifecycle.
type UpdateStatusInput struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending completed failed"`
}
