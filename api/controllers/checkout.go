package controllers

import (
	"net/http"

	"github.com/angelmondragon/planfinderz-storefront/api/middleware"
	"github.com/angelmondragon/planfinderz-storefront/api/responses"
	"github.com/angelmondragon/planfinderz-storefront/api/validators"
	"github.com/angelmondragon/planfinderz-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
)

type checkoutRequest struct {
	Contact checkout.Contact `json:"contact" validate:"required"`
}

// CheckoutSubmit hands the session cart off and empties it.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Submit(r.Context(), checkout.Request{
			SessionID: middleware.SessionIDFromContext(r.Context()),
			ShopperID: middleware.ShopperIDFromContext(r.Context()),
			Contact:   payload.Contact,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
