package checkout

import (
	"time"

	"github.com/angelmondragon/planfinderz-storefront/internal/cart"
	"github.com/shopspring/decimal"
)

// Contact is who the storefront follows up with about the order.
type Contact struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// Request is one checkout attempt for a cart session.
type Request struct {
	SessionID string
	ShopperID string
	Contact   Contact
}

// Submission is the finalized cart handed to the checkout collaborator.
type Submission struct {
	OrderRef  string          `json:"orderRef"`
	SessionID string          `json:"sessionId"`
	ShopperID string          `json:"shopperId,omitempty"`
	Contact   Contact         `json:"contact"`
	Items     []cart.Item     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	PlacedAt  time.Time       `json:"placedAt"`
}

// Receipt is returned to the shopper once the submission was handed off.
type Receipt struct {
	OrderRef string          `json:"orderRef"`
	Status   string          `json:"status"`
	Items    []cart.Item     `json:"items"`
	Total    decimal.Decimal `json:"total"`
	PlacedAt time.Time       `json:"placedAt"`
}

const receiptStatusSubmitted = "submitted"
