package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artvia/artvia-backend/pkg/db/models"
)

// Repository encapsulates payment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payment repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the payment and its artwork lines in one transaction.
func (r *Repository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(payment).Error
	})
}

// List returns all payments with their artwork lines, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Artworks").
		Order("created_at DESC").
		Find(&payments).
		Error
	return payments, err
}

// FindByID loads one payment with its artwork lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Artworks").
		Where("id = ?", id).
		First(&payment).
		Error
	return payment, err
}

// Save persists the payment row. Artwork lines are immutable after
// creation and are not touched here.
func (r *Repository) Save(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).
		Omit("Artworks").
		Save(payment).
		Error
}

// Delete removes the payment and, via the FK cascade, its lines.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Payment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountArtworks reports how many of the given artwork ids exist.
func (r *Repository) CountArtworks(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Artwork{}).
		Where("id IN ?", ids).
		Count(&count).
		Error
	return count, err
}
