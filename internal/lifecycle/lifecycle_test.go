package lifecycle_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-concierge/internal/conversation"
	"github.com/ajitpratap0/openclaw-concierge/internal/lifecycle"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func seed(t *testing.T, now time.Time) *conversation.Registry {
	t.Helper()
	reg := conversation.NewRegistry(0)

	old, _ := reg.GetOrCreate("old", "u1")
	old.Touch(now.Add(-2 * time.Hour))

	stale, _ := reg.GetOrCreate("stale", "u2")
	stale.RecordFailure()
	stale.RecordFailure()
	stale.Touch(now.Add(-40 * time.Minute))

	fresh, _ := reg.GetOrCreate("fresh", "u3")
	fresh.RecordFailure()
	fresh.Touch(now.Add(-time.Minute))
	return reg
}

func TestManager_Run(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := seed(t, now)
	m := lifecycle.NewManager(reg, time.Hour, newTestLogger())
	m.SetClock(func() time.Time { return now })

	report, err := m.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, 1, report.Reset)

	_, err = reg.Get("old")
	assert.ErrorIs(t, err, conversation.ErrNotFound)

	stale, err := reg.Get("stale")
	require.NoError(t, err)
	assert.Equal(t, 0, stale.Failures())

	fresh, err := reg.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Failures())
}

func TestManager_DryRun(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := seed(t, now)
	m := lifecycle.NewManager(reg, time.Hour, newTestLogger())
	m.SetClock(func() time.Time { return now })

	report, err := m.Run(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, 1, report.Reset)
	assert.Equal(t, 3, reg.Len())

	stale, err := reg.Get("stale")
	require.NoError(t, err)
	assert.Equal(t, 2, stale.Failures())
}

func TestManager_Disabled(t *testing.T) {
	now := time.Now()
	reg := seed(t, now)
	report, err := lifecycle.NewManager(reg, 0, newTestLogger()).Run(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, report.Expired)
	assert.Equal(t, 3, reg.Len())
}
