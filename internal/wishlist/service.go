package wishlist

import (
	"context"
	"strings"

	"github.com/angelmondragon/planfinderz-storefront/pkg/db"
	"github.com/angelmondragon/planfinderz-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/planfinderz-storefront/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Logger *logger.Logger
}

// Service exposes wishlist rules. Owners are opaque keys built from the
// authenticated shopper or the cart session.
type Service interface {
	Toggle(ctx context.Context, ownerKey string, entry Entry) (ToggleResult, error)
	Contains(ctx context.Context, ownerKey, sourceID string) (bool, error)
	List(ctx context.Context, ownerKey string, params pagination.Params) (PageDTO, error)
	Remove(ctx context.Context, ownerKey, sourceID string) error
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist tx runner is required")
	}
	return &service{repo: params.Repo, tx: params.Tx, logg: params.Logger}, nil
}

// OwnerForShopper keys a wishlist by authenticated shopper.
func OwnerForShopper(shopperID string) string {
	return "shopper:" + strings.TrimSpace(shopperID)
}

// OwnerForSession keys a wishlist by anonymous cart session.
func OwnerForSession(sessionID string) string {
	return "session:" + strings.TrimSpace(sessionID)
}

// Toggle saves the entry when absent and removes it when present.
func (s *service) Toggle(ctx context.Context, ownerKey string, entry Entry) (ToggleResult, error) {
	if err := validateOwner(ownerKey); err != nil {
		return ToggleResult{}, err
	}
	entry.SourceID = strings.TrimSpace(entry.SourceID)
	if entry.SourceID == "" {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeValidation, "source id is required")
	}

	saved := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		removed, err := repo.Delete(ctx, ownerKey, entry.SourceID)
		if err != nil {
			return err
		}
		if removed {
			return nil
		}
		saved = true
		return repo.Create(ctx, modelFromEntry(ownerKey, entry))
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			// a concurrent toggle saved it first
			return ToggleResult{SourceID: entry.SourceID, Saved: true}, nil
		}
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle wishlist item")
	}

	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
			"source_id": entry.SourceID,
			"saved":     saved,
		}), "wishlist.toggled")
	}
	return ToggleResult{SourceID: entry.SourceID, Saved: saved}, nil
}

func (s *service) Contains(ctx context.Context, ownerKey, sourceID string) (bool, error) {
	if err := validateOwner(ownerKey); err != nil {
		return false, err
	}
	ok, err := s.repo.Exists(ctx, ownerKey, strings.TrimSpace(sourceID))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist item")
	}
	return ok, nil
}

// List returns one page of saved plans, newest first. Out-of-range pages are
// clamped to the last page.
func (s *service) List(ctx context.Context, ownerKey string, params pagination.Params) (PageDTO, error) {
	if err := validateOwner(ownerKey); err != nil {
		return PageDTO{}, err
	}
	size := pagination.NormalizePageSize(params.PageSize)

	count, err := s.repo.Count(ctx, ownerKey)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count wishlist items")
	}
	totalPages := pagination.TotalPages(int(count), size)
	page := pagination.ClampPage(params.Page, totalPages)

	rows, err := s.repo.List(ctx, ownerKey, pagination.Offset(page, size), size)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist items")
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemDTOFromModel(row))
	}
	return PageDTO{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalCount: int(count),
	}, nil
}

// Remove drops the entry regardless of prior state.
func (s *service) Remove(ctx context.Context, ownerKey, sourceID string) error {
	if err := validateOwner(ownerKey); err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, ownerKey, strings.TrimSpace(sourceID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}

func validateOwner(ownerKey string) error {
	_, id, ok := strings.Cut(ownerKey, ":")
	if !ok || strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist owner is required")
	}
	return nil
}

func modelFromEntry(ownerKey string, entry Entry) *models.WishlistItem {
	item := &models.WishlistItem{
		ID:       uuid.New(),
		OwnerKey: ownerKey,
		SourceID: entry.SourceID,
		Name:     entry.Name,
		Image:    entry.Image,
		Category: entry.Category,
		Price:    entry.Price,
	}
	if entry.SalePrice != nil {
		item.SalePrice = decimal.NewNullDecimal(*entry.SalePrice)
	}
	return item
}
