package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatus_CalendarDays(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		end   time.Time
		today time.Time
		want  TournamentStatus
	}{
		{"evening before start", end, time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC), StatusUpcoming},
		{"start morning", end, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), StatusOngoing},
		{"afternoon of the end date", end, time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC), StatusOngoing},
		{"last second of the end date", end, time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC), StatusOngoing},
		{"day after", end, time.Date(2024, 7, 1, 0, 0, 1, 0, time.UTC), StatusCompleted},
		{"missing end date", time.Time{}, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStatus(start, tt.end, tt.today))
		})
	}
}
