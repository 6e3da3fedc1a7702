package booking

import (
	"context"
)

type Service interface {
	// GetForCustomer returns a booking owned by customerID.
	GetForCustomer(ctx context.Context, id string, customerID string) (*Booking, error)
	// Cancel marks a customer's own booking as canceled, freeing its interval.
	Cancel(ctx context.Context, id string, customerID string) (*Booking, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetForCustomer(ctx context.Context, id string, customerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerID == "" || b.CustomerID != customerID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string, customerID string) (*Booking, error) {
	b, err := s.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	// Business Logic: customers can only cancel, and only once
	if b.Status == StatusCanceled {
		return nil, ErrAlreadyCanceled
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, StatusCanceled); err != nil {
		return nil, err
	}
	b.Status = StatusCanceled
	return b, nil
}
