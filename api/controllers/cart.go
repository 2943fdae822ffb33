package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/planfinderz-storefront/api/middleware"
	"github.com/angelmondragon/planfinderz-storefront/api/responses"
	"github.com/angelmondragon/planfinderz-storefront/api/validators"
	cartsvc "github.com/angelmondragon/planfinderz-storefront/internal/cart"
	"github.com/angelmondragon/planfinderz-storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
)

type addCartItemRequest struct {
	SourceID string `json:"sourceId" validate:"required,max=200"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartFetch returns the session's cart snapshot.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snapshot, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartAddItem adds a catalog plan to the cart. Display fields and price come
// from the catalog record, never from the request body.
func CartAddItem(svc cartsvc.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := catalogSvc.Get(r.Context(), payload.SourceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), cartsvc.Candidate{
			ID:    record.SourceID,
			Name:  record.Name,
			Image: record.Image,
			Size:  record.Size,
			Price: record.EffectivePrice(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(snapshot))
	}
}

// CartUpdateItem sets a line's quantity. Unknown ids leave the cart unchanged.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.UpdateQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), chi.URLParam(r, "itemId"), *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snapshot, err := svc.RemoveItem(r.Context(), middleware.SessionIDFromContext(r.Context()), chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snapshot, err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

type cartResponse struct {
	Items     []cartsvc.Item `json:"items"`
	Total     string         `json:"total"`
	ItemCount int            `json:"itemCount"`
}

func newCartResponse(snapshot *cartsvc.Snapshot) cartResponse {
	if snapshot == nil {
		return cartResponse{Items: []cartsvc.Item{}, Total: "0"}
	}
	items := snapshot.Items
	if items == nil {
		items = []cartsvc.Item{}
	}
	return cartResponse{
		Items:     items,
		Total:     snapshot.Total.String(),
		ItemCount: snapshot.ItemCount(),
	}
}
