package wishlist

import (
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Entry is the catalog data copied onto a wishlist row when it is saved.
type Entry struct {
	SourceID  string
	Name      string
	Image     string
	Category  string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
}

// ItemDTO is a saved plan as returned to the storefront.
type ItemDTO struct {
	SourceID  string           `json:"sourceId"`
	Name      string           `json:"name"`
	Image     string           `json:"image"`
	Category  string           `json:"category"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice"`
	SavedAt   time.Time        `json:"savedAt"`
}

// PageDTO is a page-number paginated wishlist view.
type PageDTO struct {
	Items      []ItemDTO `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
	TotalCount int       `json:"totalCount"`
}

// ToggleResult reports the membership after a toggle.
type ToggleResult struct {
	SourceID string `json:"sourceId"`
	Saved    bool   `json:"saved"`
}

func itemDTOFromModel(m models.WishlistItem) ItemDTO {
	dto := ItemDTO{
		SourceID: m.SourceID,
		Name:     m.Name,
		Image:    m.Image,
		Category: m.Category,
		Price:    m.Price,
		SavedAt:  m.CreatedAt,
	}
	if m.SalePrice.Valid {
		sale := m.SalePrice.Decimal
		dto.SalePrice = &sale
	}
	return dto
}
