package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/apperror"
)

func render(err error) (int, map[string]string) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestError(t *testing.T) {
	sentinel := apperror.WithAction(http.StatusServiceUnavailable, "calendar data unavailable", apperror.ActionTryAgain)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "app error without action",
			err:        apperror.New(http.StatusNotFound, "booking not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]string{"error": "booking not found"},
		},
		{
			name:       "chained error keeps action and hides cause",
			err:        apperror.Because(sentinel, errors.New("dial tcp: refused")),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"error": "calendar data unavailable", "action": "try_again"},
		},
		{
			name:       "plain error",
			err:        errors.New("unexpected"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "internal server error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := render(tt.err)
			require.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
