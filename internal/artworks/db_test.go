package artworks

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/artvia/artvia-backend/pkg/db/models"
)

// openTestDB opens a throwaway sqlite database. A single pooled
// connection keeps concurrent repository calls serialized instead of
// tripping sqlite's write lock.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "artvia_test.db")
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(&models.Artwork{}, &models.ArtworkLike{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateArtwork(t *testing.T, db *gorm.DB, likes, views int) models.Artwork {
	t.Helper()
	artwork := models.Artwork{
		ID:          uuid.New(),
		ArtType:     "painting",
		Description: "test artwork",
		Price:       decimal.RequireFromString("1500"),
		ArtistName:  "Repo Tester",
		Gmail:       "artist@example.com",
		Image:       "https://example.com/a.jpg",
		Likes:       likes,
		Views:       views,
	}
	if err := db.Create(&artwork).Error; err != nil {
		t.Fatalf("create artwork: %v", err)
	}
	return artwork
}
