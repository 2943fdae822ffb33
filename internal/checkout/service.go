package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	"github.com/google/uuid"
)

const (
	OutcomeSubmitted = "submitted"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

var errEmptyCart = errors.New("cart is empty")

type cartCheckout interface {
	Checkout(ctx context.Context, sessionID string, handoff func(cart.Snapshot) error) (*cart.Snapshot, error)
}

type checkoutRecorder interface {
	IncCheckout(outcome string)
}

// Service runs the simulated checkout: no payment is taken, the cart is
// handed off and then emptied.
type Service interface {
	Submit(ctx context.Context, req Request) (*Receipt, error)
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Carts     cartCheckout
	Publisher Publisher
	Metrics   checkoutRecorder
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	carts     cartCheckout
	publisher Publisher
	metrics   checkoutRecorder
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("checkout publisher required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		carts:     params.Carts,
		publisher: params.Publisher,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       now,
	}, nil
}

func (s *service) Submit(ctx context.Context, req Request) (*Receipt, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}

	var submission Submission
	_, err := s.carts.Checkout(ctx, req.SessionID, func(snap cart.Snapshot) error {
		if snap.IsEmpty() {
			return errEmptyCart
		}
		submission = Submission{
			OrderRef:  uuid.NewString(),
			SessionID: req.SessionID,
			ShopperID: strings.TrimSpace(req.ShopperID),
			Contact:   req.Contact,
			Items:     snap.Items,
			Total:     snap.Total,
			PlacedAt:  s.now().UTC(),
		}
		if err := s.publisher.Publish(ctx, submission); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout is temporarily unavailable")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errEmptyCart) {
			s.record(OutcomeRejected)
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		s.record(OutcomeFailed)
		return nil, err
	}
	s.record(OutcomeSubmitted)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_ref", submission.OrderRef), "checkout.submitted")
	}

	return &Receipt{
		OrderRef: submission.OrderRef,
		Status:   receiptStatusSubmitted,
		Items:    submission.Items,
		Total:    submission.Total,
		PlacedAt: submission.PlacedAt,
	}, nil
}

func (s *service) record(outcome string) {
	if s.metrics != nil {
		s.metrics.IncCheckout(outcome)
	}
}
