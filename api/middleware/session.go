package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
)

// CartSession resolves the anonymous cart session from its cookie, issuing a
// fresh one when the cookie is missing or malformed. The cookie is refreshed
// on every request so active carts keep sliding their expiry.
func CartSession(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = "pf_cart"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(name); err == nil {
				if parsed, parseErr := uuid.Parse(strings.TrimSpace(cookie.Value)); parseErr == nil {
					sessionID = parsed.String()
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    sessionID,
				Path:     "/",
				Domain:   cfg.CookieDomain,
				MaxAge:   int(cfg.SessionTTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
