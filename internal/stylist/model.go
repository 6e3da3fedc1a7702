package stylist

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound = apperror.WithAction(http.StatusNotFound, "stylist not found", apperror.ActionFixInput)
)

// Stylist represents a staff member customers can book.
type Stylist struct {
	ID        string
	Name      string
	Bio       string
	Active    bool
	CreatedAt time.Time
}

// Filter defines parameters for listing stylists.
type Filter struct {
	ActiveOnly bool
	Page       int
	PageSize   int
}
