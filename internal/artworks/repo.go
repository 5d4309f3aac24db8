package artworks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artvia/artvia-backend/pkg/db/models"
)

// Repository encapsulates artwork persistence, including the like rows
// and the denormalized counters.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an artwork repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the full catalog, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Artwork, error) {
	var artworks []models.Artwork
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&artworks).
		Error
	return artworks, err
}

// FindByID loads one artwork.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Artwork, error) {
	var artwork models.Artwork
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&artwork).
		Error
	return artwork, err
}

// Create inserts a new artwork.
func (r *Repository) Create(ctx context.Context, artwork *models.Artwork) error {
	return r.db.WithContext(ctx).Create(artwork).Error
}

// Save persists the full artwork row.
func (r *Repository) Save(ctx context.Context, artwork *models.Artwork) error {
	return r.db.WithContext(ctx).Save(artwork).Error
}

// Delete removes the artwork and, via the FK cascade, its like rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Artwork{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Trending returns up to limit artworks ordered by likes then views,
// both descending. Ties beyond that fall to storage order.
func (r *Repository) Trending(ctx context.Context, limit int) ([]models.Artwork, error) {
	var artworks []models.Artwork
	err := r.db.WithContext(ctx).
		Order("likes DESC").
		Order("views DESC").
		Limit(limit).
		Find(&artworks).
		Error
	return artworks, err
}

// TrendingAmong restricts Trending to the given ids.
func (r *Repository) TrendingAmong(ctx context.Context, ids []uuid.UUID, limit int) ([]models.Artwork, error) {
	if len(ids) == 0 {
		return []models.Artwork{}, nil
	}
	var artworks []models.Artwork
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("likes DESC").
		Order("views DESC").
		Limit(limit).
		Find(&artworks).
		Error
	return artworks, err
}

// IncrementView bumps the view counter atomically and returns the new
// value. Repeated calls keep incrementing; each one is a page visit.
func (r *Repository) IncrementView(ctx context.Context, id uuid.UUID) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Artwork{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var views int
	err := r.db.WithContext(ctx).
		Model(&models.Artwork{}).
		Where("id = ?", id).
		Select("views").
		Scan(&views).
		Error
	return views, err
}

// ToggleLike flips the user's like row inside one transaction and
// recounts the likes column from the rows, so likes always matches the
// number of like rows even under concurrent toggles.
func (r *Repository) ToggleLike(ctx context.Context, artworkID uuid.UUID, userID string) (liked bool, likes int, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var artwork models.Artwork
		if err := tx.Where("id = ?", artworkID).First(&artwork).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.ArtworkLike{}).
			Where("artwork_id = ? AND user_id = ?", artworkID, userID).
			Count(&existing).
			Error; err != nil {
			return err
		}

		if existing > 0 {
			if err := tx.Where("artwork_id = ? AND user_id = ?", artworkID, userID).
				Delete(&models.ArtworkLike{}).
				Error; err != nil {
				return err
			}
			liked = false
		} else {
			like := models.ArtworkLike{ArtworkID: artworkID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			liked = true
		}

		var total int64
		if err := tx.Model(&models.ArtworkLike{}).
			Where("artwork_id = ?", artworkID).
			Count(&total).
			Error; err != nil {
			return err
		}
		likes = int(total)

		return tx.Model(&models.Artwork{}).
			Where("id = ?", artworkID).
			UpdateColumn("likes", likes).
			Error
	})
	return liked, likes, err
}

// AdjustFavoriteCount applies delta to the anonymous favorites tally,
// floored at zero. Read-modify-write inside a transaction.
func (r *Repository) AdjustFavoriteCount(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var artwork models.Artwork
		if err := tx.Where("id = ?", id).First(&artwork).Error; err != nil {
			return err
		}
		count = artwork.FavoritesCount + delta
		if count < 0 {
			count = 0
		}
		return tx.Model(&models.Artwork{}).
			Where("id = ?", id).
			UpdateColumn("favorites_count", count).
			Error
	})
	return count, err
}

// HasLiked reports whether the user currently likes the artwork.
func (r *Repository) HasLiked(ctx context.Context, artworkID uuid.UUID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ArtworkLike{}).
		Where("artwork_id = ? AND user_id = ?", artworkID, userID).
		Count(&count).
		Error
	return count > 0, err
}
