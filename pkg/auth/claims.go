package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ShopperID string
	Email     string
	Name      string
	JTI       string
}

// AccessTokenClaims represents the JWT issued to shoppers by the account service.
type AccessTokenClaims struct {
	ShopperID string `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Shopper returns the shopper identifier, falling back to the subject claim.
func (c *AccessTokenClaims) Shopper() string {
	if c == nil {
		return ""
	}
	if id := strings.TrimSpace(c.ShopperID); id != "" {
		return id
	}
	return strings.TrimSpace(c.Subject)
}
