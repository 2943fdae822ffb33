package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
)

const (
	OpAdd            = "add"
	OpUpdateQuantity = "update_quantity"
	OpRemove         = "remove"
	OpClear          = "clear"
)

type sessionStore interface {
	Load(ctx context.Context, sessionID string) ([]Item, error)
	Save(ctx context.Context, sessionID string, items []Item) error
}

type mutationRecorder interface {
	IncCartMutation(op string)
}

// Service exposes the cart engine per cart session. Mutations for one
// session are applied one at a time, in arrival order.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Snapshot, error)
	AddItem(ctx context.Context, sessionID string, candidate Candidate) (*Snapshot, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Snapshot, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*Snapshot, error)
	Clear(ctx context.Context, sessionID string) (*Snapshot, error)
	Checkout(ctx context.Context, sessionID string, handoff func(Snapshot) error) (*Snapshot, error)
}

// ServiceParams wires the cart service.
type ServiceParams struct {
	Store   sessionStore
	Metrics mutationRecorder
	Logger  *logger.Logger
}

type service struct {
	store   sessionStore
	metrics mutationRecorder
	logg    *logger.Logger
	locks   *sessionLocks
}

// NewService builds a cart service backed by the provided session store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	return &service{
		store:   params.Store,
		metrics: params.Metrics,
		logg:    params.Logger,
		locks:   newSessionLocks(),
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	engine, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := engine.Snapshot()
	return &snap, nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, candidate Candidate) (*Snapshot, error) {
	candidate.ID = strings.TrimSpace(candidate.ID)
	if candidate.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.mutate(ctx, sessionID, OpAdd, func(e *Engine) {
		e.Add(candidate)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, OpUpdateQuantity, func(e *Engine) {
		e.UpdateQuantity(itemID, quantity)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, OpRemove, func(e *Engine) {
		e.Remove(itemID)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, OpClear, func(e *Engine) {
		e.Clear()
	})
}

// Checkout hands the current cart to handoff and empties it, holding the
// session lock throughout so no mutation lands between the two. A handoff
// error leaves the cart untouched and is returned as is.
func (s *service) Checkout(ctx context.Context, sessionID string, handoff func(Snapshot) error) (*Snapshot, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	engine, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := engine.Snapshot()
	if err := handoff(snap); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sessionID, nil); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart.checkout.clear_failed", err)
		}
		return &snap, nil
	}
	if s.metrics != nil {
		s.metrics.IncCartMutation(OpClear)
	}
	return &snap, nil
}

func (s *service) mutate(ctx context.Context, sessionID, op string, apply func(*Engine)) (*Snapshot, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	engine, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	apply(engine)
	snap := engine.Snapshot()

	if err := s.store.Save(ctx, sessionID, snap.Items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart storage unavailable")
	}
	if s.metrics != nil {
		s.metrics.IncCartMutation(op)
	}
	return &snap, nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Engine, error) {
	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		var corrupt *ErrCorruptCart
		if !errors.As(err, &corrupt) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart storage unavailable")
		}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.payload.corrupt_reset")
		}
		items = nil
	}
	return Restore(items), nil
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return nil
}
