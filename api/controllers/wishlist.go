package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/planfinderz-storefront/api/middleware"
	"github.com/angelmondragon/planfinderz-storefront/api/responses"
	"github.com/angelmondragon/planfinderz-storefront/api/validators"
	"github.com/angelmondragon/planfinderz-storefront/internal/catalog"
	"github.com/angelmondragon/planfinderz-storefront/internal/wishlist"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/planfinderz-storefront/pkg/pagination"
)

type toggleWishlistRequest struct {
	SourceID string `json:"sourceId" validate:"required,max=200"`
}

// wishlistOwner prefers the signed-in shopper and falls back to the cart session.
func wishlistOwner(r *http.Request) string {
	if shopperID := middleware.ShopperIDFromContext(r.Context()); shopperID != "" {
		return wishlist.OwnerForShopper(shopperID)
	}
	return wishlist.OwnerForSession(middleware.SessionIDFromContext(r.Context()))
}

func WishlistList(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), wishlistOwner(r), pagination.Params{Page: page, PageSize: pageSize})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WishlistToggle saves or unsaves a catalog plan.
func WishlistToggle(svc wishlist.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		var payload toggleWishlistRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := catalogSvc.Get(r.Context(), payload.SourceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Toggle(r.Context(), wishlistOwner(r), wishlist.Entry{
			SourceID:  record.SourceID,
			Name:      record.Name,
			Image:     record.Image,
			Category:  record.Category,
			Price:     record.Price,
			SalePrice: record.SalePrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func WishlistContains(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		sourceID := chi.URLParam(r, "sourceId")
		saved, err := svc.Contains(r.Context(), wishlistOwner(r), sourceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wishlist.ToggleResult{SourceID: sourceID, Saved: saved})
	}
}

func WishlistRemove(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}

		if err := svc.Remove(r.Context(), wishlistOwner(r), chi.URLParam(r, "sourceId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
