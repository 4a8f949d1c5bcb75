package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeRefresher struct {
	calls   atomic.Int32
	Changed int
	Err     error
}

func (f *FakeRefresher) RefreshStatuses(ctx context.Context) (int, error) {
	f.calls.Add(1)
	return f.Changed, f.Err
}

func TestStartStatusSweep_RunsImmediatelyAndRepeats(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := &FakeRefresher{Changed: 1}

	sched, err := StartStatusSweep(context.Background(), r, 20*time.Millisecond, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Shutdown() })

	require.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestSweepOnce(t *testing.T) {
	tests := []struct {
		name      string
		refresher *FakeRefresher
		cancelled bool
		wantCalls int32
		wantLog   string
	}{
		{name: "changes are logged", refresher: &FakeRefresher{Changed: 2}, wantCalls: 1, wantLog: "changed=2"},
		{name: "errors are logged", refresher: &FakeRefresher{Err: errors.New("db down")}, wantCalls: 1, wantLog: "db down"},
		{name: "nothing to change", refresher: &FakeRefresher{}, wantCalls: 1, wantLog: "nothing to change"},
		{name: "cancelled context skips the run", refresher: &FakeRefresher{}, cancelled: true, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelled {
				cancel()
			}

			sweepOnce(ctx, tt.refresher, logger)

			assert.Equal(t, tt.wantCalls, tt.refresher.calls.Load())
			if tt.wantLog != "" {
				assert.Contains(t, buf.String(), tt.wantLog)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
