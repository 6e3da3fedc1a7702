package shift

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftWindow(t *testing.T) {
	taipei, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		shift     Shift
		loc       *time.Location
		wantStart time.Time
		wantEnd   time.Time
		wantErr   error
	}{
		{
			name:      "short clock format",
			shift:     Shift{Date: date, StartTime: "09:00", DurationMinutes: 180},
			loc:       time.UTC,
			wantStart: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "postgres time text in salon zone",
			shift:     Shift{Date: date, StartTime: "13:30:00", DurationMinutes: 90},
			loc:       taipei,
			wantStart: time.Date(2026, 3, 2, 13, 30, 0, 0, taipei),
			wantEnd:   time.Date(2026, 3, 2, 15, 0, 0, 0, taipei),
		},
		{
			name:    "bad clock",
			shift:   Shift{Date: date, StartTime: "9am", DurationMinutes: 60},
			loc:     time.UTC,
			wantErr: ErrInvalidStartTime,
		},
		{
			name:    "zero duration",
			shift:   Shift{Date: date, StartTime: "09:00", DurationMinutes: 0},
			loc:     time.UTC,
			wantErr: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.shift.Window(tt.loc)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "start %v", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %v", end)
		})
	}
}
