package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistItem stores a saved catalog record for a shopper or cart session.
// The display fields are a copy taken when the record was saved.
type WishlistItem struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OwnerKey  string              `gorm:"column:owner_key;not null;index:wishlist_items_owner_key_idx;uniqueIndex:wishlist_items_owner_source_key"`
	SourceID  string              `gorm:"column:source_id;not null;uniqueIndex:wishlist_items_owner_source_key"`
	Name      string              `gorm:"column:name;not null"`
	Image     string              `gorm:"column:image;not null"`
	Category  string              `gorm:"column:category;not null"`
	Price     decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	SalePrice decimal.NullDecimal `gorm:"column:sale_price;type:numeric(12,2)"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
