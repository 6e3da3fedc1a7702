package http

import (
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/salon-booking-backend/internal/treatment"
)

// ListTreatmentsRequest defines query parameters for listing salon services.
type ListTreatmentsRequest struct {
	request.ListParams
	IncludeInactive bool `form:"include_inactive"`
}

type TreatmentResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewResponse(t *treatment.Treatment) TreatmentResponse {
	return TreatmentResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		DurationMinutes: t.DurationMinutes,
		PriceCents:      t.PriceCents,
		Active:          t.Active,
		CreatedAt:       t.CreatedAt,
	}
}
