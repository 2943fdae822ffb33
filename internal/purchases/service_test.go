package purchases

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/remoteapi"
)

type stubFetcher struct {
	payload    []byte
	err        error
	lastBearer string
	lastPath   string
}

func (s *stubFetcher) GetRaw(_ context.Context, path, bearer string) ([]byte, error) {
	s.lastPath = path
	s.lastBearer = bearer
	return s.payload, s.err
}

const historyPayload = `{"orders":[
	{"_id":"o1","paymentStatus":"pending","items":[{"product":"p-1"}]},
	{"_id":"o2","paymentStatus":"paid","createdAt":"2026-02-01T09:00:00Z","items":[{"product":{"_id":"p-2"},"name":"Villa"}]},
	{"id":7,"status":"PAID","products":[{"productId":"professional-p-3"}]}
]}`

func TestDecodeOrders(t *testing.T) {
	orders, err := DecodeOrders([]byte(historyPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if orders[1].Items[0].ProductRef != "p-2" || orders[1].PlacedAt == nil {
		t.Fatalf("unexpected second order %+v", orders[1])
	}
	if orders[2].ID != "7" || orders[2].PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("unexpected third order %+v", orders[2])
	}

	bare, err := DecodeOrders([]byte(`[{"_id":"x","paymentStatus":"weird"}]`))
	if err != nil || len(bare) != 1 || bare[0].PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("unknown status should fall back to pending, got %+v err=%v", bare, err)
	}
}

func TestHasPurchasedOnlyCountsPaidOrders(t *testing.T) {
	orders, err := DecodeOrders([]byte(historyPayload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if _, ok := HasPurchased(orders, "admin-p-1"); ok {
		t.Fatalf("pending order must not grant access")
	}
	if id, ok := HasPurchased(orders, "admin-p-2"); !ok || id != "o2" {
		t.Fatalf("expected access via o2, got %q %v", id, ok)
	}
	if id, ok := HasPurchased(orders, "professional-p-3"); !ok || id != "7" {
		t.Fatalf("expected access via full source id, got %q %v", id, ok)
	}
	if _, ok := HasPurchased(orders, "admin-p-9"); ok {
		t.Fatalf("unknown plan must not be purchased")
	}
}

func TestAccessRequiresBearer(t *testing.T) {
	svc, err := NewService(ServiceParams{Fetcher: &stubFetcher{}, OrdersPath: "/orders/my-orders"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.Access(context.Background(), "", "admin-p-2"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAccessForwardsBearer(t *testing.T) {
	fetcher := &stubFetcher{payload: []byte(historyPayload)}
	svc, err := NewService(ServiceParams{Fetcher: fetcher, OrdersPath: "/orders/my-orders"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	access, err := svc.Access(context.Background(), "tok", "admin-p-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !access.Purchased || access.OrderID != "o2" {
		t.Fatalf("unexpected access %+v", access)
	}
	if fetcher.lastBearer != "tok" || fetcher.lastPath != "/orders/my-orders" {
		t.Fatalf("unexpected forwarded call %q %q", fetcher.lastPath, fetcher.lastBearer)
	}
}

func TestAccessTranslatesRemoteErrors(t *testing.T) {
	svc, _ := NewService(ServiceParams{
		Fetcher:    &stubFetcher{err: &remoteapi.StatusError{StatusCode: 401}},
		OrdersPath: "/orders/my-orders",
	})
	if _, err := svc.Access(context.Background(), "expired", "admin-p-2"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	svc, _ = NewService(ServiceParams{
		Fetcher:    &stubFetcher{err: errors.New("connection reset")},
		OrdersPath: "/orders/my-orders",
	})
	if _, err := svc.Access(context.Background(), "tok", "admin-p-2"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
