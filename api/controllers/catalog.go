package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/planfinderz-storefront/api/middleware"
	"github.com/angelmondragon/planfinderz-storefront/api/responses"
	"github.com/angelmondragon/planfinderz-storefront/internal/catalog"
	"github.com/angelmondragon/planfinderz-storefront/internal/purchases"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
)

// CatalogBrowse filters, sorts and paginates the merged catalog. A failed
// load still answers with the fetch state so the page can render its message.
func CatalogBrowse(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query, err := catalog.ParseQuery(r.URL.Query(), svc.DefaultPageSize())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := svc.Browse(r.Context(), query)
		if result.Page == nil {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, result)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CatalogDetail returns one plan by its source-qualified id.
func CatalogDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		record, err := svc.Get(r.Context(), chi.URLParam(r, "sourceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// CatalogAccess reports whether the signed-in shopper has a paid order for the plan.
func CatalogAccess(catalogSvc catalog.Service, purchasesSvc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalogSvc == nil || purchasesSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		record, err := catalogSvc.Get(r.Context(), chi.URLParam(r, "sourceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		access, err := purchasesSvc.Access(r.Context(), middleware.BearerFromContext(r.Context()), record.SourceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, access)
	}
}

// PurchaseHistory lists the signed-in shopper's orders.
func PurchaseHistory(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		orders, err := svc.History(r.Context(), middleware.BearerFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": orders})
	}
}
