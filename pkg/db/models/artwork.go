package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Artwork is a catalog entry. Likes and FavoritesCount are denormalized
// counters: Likes always equals the number of ArtworkLike rows (maintained
// transactionally), FavoritesCount is an approximate anonymous tally adjusted
// by unauthenticated favorite actions and is allowed to diverge from any
// individual visitor's local favorites list.
type Artwork struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ArtType     string          `gorm:"not null" json:"artType"`
	Description string          `gorm:"not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	ArtistName  string          `gorm:"not null" json:"artistName"`
	Gmail       string          `gorm:"not null" json:"gmail"`
	Image       string          `gorm:"not null" json:"image"`

	Likes          int `gorm:"not null;default:0" json:"likes"`
	Views          int `gorm:"not null;default:0" json:"views"`
	FavoritesCount int `gorm:"not null;default:0" json:"favoritesCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArtworkLike records one user's like of one artwork. The unique index is
// what makes toggle-like idempotent per user.
type ArtworkLike struct {
	ArtworkID uuid.UUID `gorm:"type:uuid;primaryKey" json:"artwork_id"`
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ArtworkLike) TableName() string {
	return "artwork_likes"
}
