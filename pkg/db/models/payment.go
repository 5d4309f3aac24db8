package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is a manually-uploaded payment proof plus the cart snapshot it
// covers. There is no gateway behind it; an admin flips PaymentStatus.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Address       string          `gorm:"not null" json:"address"`
	Email         string          `gorm:"not null" json:"email"`
	ContactNumber string          `gorm:"not null" json:"contactNumber"`
	Image         string          `gorm:"not null" json:"image"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	PaymentStatus string          `gorm:"not null;default:pending" json:"paymentStatus"`

	Artworks []PaymentArtwork `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"artworks"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentArtwork is one line of the checkout snapshot.
type PaymentArtwork struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	PaymentID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ArtworkID uuid.UUID `gorm:"type:uuid;not null" json:"artworkId"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
}

func (PaymentArtwork) TableName() string {
	return "payment_artworks"
}

// ValidPaymentStatus reports whether the given status is one of the
// recognized lifecycle states.
func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}
