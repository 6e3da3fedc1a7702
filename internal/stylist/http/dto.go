package http

import (
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/salon-booking-backend/internal/stylist"
)

// ListStylistsRequest defines query parameters for listing stylists.
type ListStylistsRequest struct {
	request.ListParams
	IncludeInactive bool `form:"include_inactive"`
}

type StylistResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(s *stylist.Stylist) StylistResponse {
	return StylistResponse{
		ID:        s.ID,
		Name:      s.Name,
		Bio:       s.Bio,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}
