package controllers

import (
	"net/http"

	"github.com/angelmondragon/planfinderz-storefront/api/middleware"
	"github.com/angelmondragon/planfinderz-storefront/api/responses"
	"github.com/angelmondragon/planfinderz-storefront/api/validators"
	"github.com/angelmondragon/planfinderz-storefront/internal/inquiries"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
)

// InquirySubmit forwards a plan customization request.
func InquirySubmit(svc inquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		var payload inquiries.Inquiry
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Submit(r.Context(), middleware.BearerFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
