package purchases

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/planfinderz-storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/planfinderz-storefront/pkg/remoteapi"
)

type historyFetcher interface {
	GetRaw(ctx context.Context, path, bearer string) ([]byte, error)
}

// Service answers order-history questions for signed-in shoppers.
type Service interface {
	History(ctx context.Context, bearer string) ([]Order, error)
	Access(ctx context.Context, bearer, sourceID string) (Access, error)
}

// ServiceParams wires the purchases service.
type ServiceParams struct {
	Fetcher    historyFetcher
	OrdersPath string
	Logger     *logger.Logger
}

type service struct {
	fetcher historyFetcher
	path    string
	logg    *logger.Logger
}

// NewService validates dependencies and returns a purchases service.
func NewService(params ServiceParams) (Service, error) {
	if params.Fetcher == nil {
		return nil, fmt.Errorf("order history fetcher required")
	}
	if strings.TrimSpace(params.OrdersPath) == "" {
		return nil, fmt.Errorf("orders path required")
	}
	return &service{fetcher: params.Fetcher, path: params.OrdersPath, logg: params.Logger}, nil
}

// History loads the orders visible to the bearer's owner.
func (s *service) History(ctx context.Context, bearer string) ([]Order, error) {
	if strings.TrimSpace(bearer) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view purchases")
	}
	payload, err := s.fetcher.GetRaw(ctx, s.path, bearer)
	if err != nil {
		return nil, remoteapi.Translate(err, "order history unavailable")
	}
	orders, err := DecodeOrders(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order history")
	}
	return orders, nil
}

// Access reports whether the shopper has a paid order containing sourceID.
func (s *service) Access(ctx context.Context, bearer, sourceID string) (Access, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return Access{}, pkgerrors.New(pkgerrors.CodeValidation, "plan id is required")
	}
	orders, err := s.History(ctx, bearer)
	if err != nil {
		return Access{}, err
	}
	orderID, ok := HasPurchased(orders, sourceID)
	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
			"source_id": sourceID,
			"purchased": ok,
			"orders":    len(orders),
		}), "purchases.access_checked")
	}
	return Access{SourceID: sourceID, Purchased: ok, OrderID: orderID}, nil
}

// HasPurchased scans paid orders for sourceID. Orders may reference the plan
// by its source-qualified id or by the id local to its catalog. The id of the
// first matching order is returned.
func HasPurchased(orders []Order, sourceID string) (string, bool) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return "", false
	}
	rawID := ""
	if _, id, ok := catalog.SplitSourceID(sourceID); ok {
		rawID = id
	}

	for _, order := range orders {
		if !order.PaymentStatus.IsPaid() {
			continue
		}
		for _, item := range order.Items {
			if item.ProductRef == sourceID || (rawID != "" && item.ProductRef == rawID) {
				return order.ID, true
			}
		}
	}
	return "", false
}
