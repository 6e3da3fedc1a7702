package stylist

import "context"

type Service interface {
	GetByID(ctx context.Context, id string) (*Stylist, error)
	List(ctx context.Context, filter Filter) ([]*Stylist, int, error)
	// EnsureBookable returns ErrNotFound unless the stylist exists and is active.
	EnsureBookable(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Stylist, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Stylist, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) EnsureBookable(ctx context.Context, id string) error {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !st.Active {
		return ErrNotFound
	}
	return nil
}
