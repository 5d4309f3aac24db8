package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the thin gallery user directory carried over from the original
// system. There is no credential material here; identity for like-toggling
// arrives via request headers.
type User struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Gmail   string    `gorm:"not null" json:"gmail"`
	Age     int       `json:"age"`
	Address string    `json:"address"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
