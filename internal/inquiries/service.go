package inquiries

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/planfinderz-storefront/pkg/remoteapi"
)

// Inquiry is a customization request for a catalog plan.
type Inquiry struct {
	Name           string   `json:"name" validate:"required,max=120"`
	Email          string   `json:"email" validate:"required,email,max=254"`
	Phone          string   `json:"phone,omitempty" validate:"omitempty,max=32"`
	PlanRef        string   `json:"planRef" validate:"required,max=128"`
	Message        string   `json:"message" validate:"required,min=10,max=4000"`
	DesiredChanges []string `json:"desiredChanges,omitempty" validate:"omitempty,max=20,dive,required,max=200"`
}

// Receipt acknowledges a forwarded inquiry.
type Receipt struct {
	ID          string    `json:"id,omitempty"`
	PlanRef     string    `json:"planRef"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type inquiryPoster interface {
	PostJSON(ctx context.Context, path, bearer string, payload, dest any) error
}

// Service forwards customization requests to the inquiry API.
type Service interface {
	Submit(ctx context.Context, bearer string, inquiry Inquiry) (*Receipt, error)
}

// ServiceParams wires the inquiries service.
type ServiceParams struct {
	Poster inquiryPoster
	Path   string
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	poster inquiryPoster
	path   string
	logg   *logger.Logger
	now    func() time.Time
}

// NewService validates dependencies and returns an inquiries service.
func NewService(params ServiceParams) (Service, error) {
	if params.Poster == nil {
		return nil, fmt.Errorf("inquiry poster required")
	}
	if strings.TrimSpace(params.Path) == "" {
		return nil, fmt.Errorf("inquiries path required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{poster: params.Poster, path: params.Path, logg: params.Logger, now: now}, nil
}

type remoteAck struct {
	ID    string `json:"_id"`
	AltID string `json:"id"`
}

func (s *service) Submit(ctx context.Context, bearer string, inquiry Inquiry) (*Receipt, error) {
	inquiry = normalize(inquiry)
	if inquiry.PlanRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan reference is required")
	}

	var ack remoteAck
	if err := s.poster.PostJSON(ctx, s.path, bearer, inquiry, &ack); err != nil {
		return nil, remoteapi.Translate(err, "inquiries are temporarily unavailable")
	}

	receipt := &Receipt{
		ID:          strings.TrimSpace(ack.ID),
		PlanRef:     inquiry.PlanRef,
		SubmittedAt: s.now().UTC(),
	}
	if receipt.ID == "" {
		receipt.ID = strings.TrimSpace(ack.AltID)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"plan_ref":   inquiry.PlanRef,
			"inquiry_id": receipt.ID,
		}), "inquiries.submitted")
	}
	return receipt, nil
}

func normalize(in Inquiry) Inquiry {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.PlanRef = strings.TrimSpace(in.PlanRef)
	in.Message = strings.TrimSpace(in.Message)
	changes := make([]string, 0, len(in.DesiredChanges))
	for _, c := range in.DesiredChanges {
		if c = strings.TrimSpace(c); c != "" {
			changes = append(changes, c)
		}
	}
	in.DesiredChanges = changes
	return in
}
