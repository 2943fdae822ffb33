package wishlist

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/planfinderz-storefront/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Find returns the saved row for owner and source id, or gorm.ErrRecordNotFound.
func (r *Repository) Find(ctx context.Context, ownerKey, sourceID string) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("owner_key = ? AND source_id = ?", ownerKey, sourceID).
		Take(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Exists reports whether owner saved the source id.
func (r *Repository) Exists(ctx context.Context, ownerKey, sourceID string) (bool, error) {
	_, err := r.Find(ctx, ownerKey, sourceID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// Create inserts a wishlist row. Duplicates surface as unique violations.
func (r *Repository) Create(ctx context.Context, item *models.WishlistItem) error {
	if item == nil || strings.TrimSpace(item.OwnerKey) == "" || strings.TrimSpace(item.SourceID) == "" {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// Delete removes the owner's row for source id and reports whether one existed.
func (r *Repository) Delete(ctx context.Context, ownerKey, sourceID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("owner_key = ? AND source_id = ?", ownerKey, sourceID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns one page of the owner's rows, newest first.
func (r *Repository) List(ctx context.Context, ownerKey string, offset, limit int) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("created_at DESC").
		Order("source_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).
		Error
	return items, err
}

// Count returns how many rows the owner has saved.
func (r *Repository) Count(ctx context.Context, ownerKey string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("owner_key = ?", ownerKey).
		Count(&count).
		Error
	return count, err
}
