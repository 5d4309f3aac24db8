package artworks

import "github.com/shopspring/decimal"

// CreateArtworkInput carries the fields accepted when listing a new
// artwork.
type CreateArtworkInput struct {
	ArtType     string          `json:"artType" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	ArtistName  string          `json:"artistName" validate:"required"`
	Gmail       string          `json:"gmail" validate:"required,email"`
	Image       string          `json:"image" validate:"required"`
}

// UpdateArtworkInput carries a partial update. Zero-valued fields keep
// the stored value.
type UpdateArtworkInput struct {
	ArtType     string          `json:"artType"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ArtistName  string          `json:"artistName"`
	Gmail       string          `json:"gmail" validate:"omitempty,email"`
	Image       string          `json:"image"`
}

// Like toggle outcomes on the wire.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// ToggleLikeResult reports the state after a like toggle.
type ToggleLikeResult struct {
	Action  string `json:"action"`
	Likes   int    `json:"likes"`
	IsLiked bool   `json:"isLiked"`
}

// Favorite counter actions on the wire.
const (
	FavoriteActionAdd    = "add"
	FavoriteActionRemove = "remove"
)
