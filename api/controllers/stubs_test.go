package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	cartsvc "github.com/angelmondragon/planfinderz-storefront/internal/cart"
	"github.com/angelmondragon/planfinderz-storefront/internal/catalog"
	"github.com/angelmondragon/planfinderz-storefront/internal/purchases"
	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
)

type stubCatalog struct {
	records []catalog.Record
	failed  bool
}

func (s stubCatalog) Load(ctx context.Context) catalog.FetchState {
	if s.failed {
		return catalog.Failed{Message: catalog.FailureMessage}
	}
	return catalog.Succeeded{Records: s.records}
}

func (s stubCatalog) Browse(ctx context.Context, q catalog.Query) catalog.BrowseResult {
	return catalog.Evaluate(s.Load(ctx), q)
}

func (s stubCatalog) Get(ctx context.Context, sourceID string) (*catalog.Record, error) {
	for i := range s.records {
		if s.records[i].SourceID == sourceID {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
}

func (s stubCatalog) DefaultPageSize() int { return 12 }

func plan(id, name string, price int64) catalog.Record {
	return catalog.Record{
		SourceID: catalog.BuildSourceID(enums.CatalogSourceAdmin, id),
		Source:   enums.CatalogSourceAdmin,
		RawID:    id,
		Name:     name,
		Image:    "/img/" + id + ".jpg",
		Category: "Villa",
		Size:     "30x40",
		Price:    decimal.NewFromInt(price),
	}
}

type stubCart struct {
	engine  *cartsvc.Engine
	session string
}

func newStubCart() *stubCart {
	return &stubCart{engine: cartsvc.NewEngine()}
}

func (s *stubCart) snapshot(sessionID string) *cartsvc.Snapshot {
	s.session = sessionID
	snap := s.engine.Snapshot()
	return &snap
}

func (s *stubCart) Get(ctx context.Context, sessionID string) (*cartsvc.Snapshot, error) {
	return s.snapshot(sessionID), nil
}

func (s *stubCart) AddItem(ctx context.Context, sessionID string, candidate cartsvc.Candidate) (*cartsvc.Snapshot, error) {
	s.engine.Add(candidate)
	return s.snapshot(sessionID), nil
}

func (s *stubCart) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*cartsvc.Snapshot, error) {
	s.engine.UpdateQuantity(itemID, quantity)
	return s.snapshot(sessionID), nil
}

func (s *stubCart) RemoveItem(ctx context.Context, sessionID, itemID string) (*cartsvc.Snapshot, error) {
	s.engine.Remove(itemID)
	return s.snapshot(sessionID), nil
}

func (s *stubCart) Clear(ctx context.Context, sessionID string) (*cartsvc.Snapshot, error) {
	s.engine.Clear()
	return s.snapshot(sessionID), nil
}

func (s *stubCart) Checkout(ctx context.Context, sessionID string, handoff func(cartsvc.Snapshot) error) (*cartsvc.Snapshot, error) {
	snap := s.snapshot(sessionID)
	if err := handoff(*snap); err != nil {
		return nil, err
	}
	s.engine.Clear()
	return snap, nil
}

type stubPurchases struct {
	orders []purchases.Order
	bearer string
}

func (s *stubPurchases) History(ctx context.Context, bearer string) ([]purchases.Order, error) {
	s.bearer = bearer
	if bearer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view purchases")
	}
	return s.orders, nil
}

func (s *stubPurchases) Access(ctx context.Context, bearer, sourceID string) (purchases.Access, error) {
	orders, err := s.History(ctx, bearer)
	if err != nil {
		return purchases.Access{}, err
	}
	orderID, ok := purchases.HasPurchased(orders, sourceID)
	return purchases.Access{SourceID: sourceID, Purchased: ok, OrderID: orderID}, nil
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}
