package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/ajitpratap0/openclaw-concierge/internal/conversation"
	"github.com/ajitpratap0/openclaw-concierge/internal/metrics"
)

// Report summarizes the results of a lifecycle run.
type Report struct {
	Expired int `json:"expired"`
	Reset   int `json:"reset"`
}

// Manager ends idle conversations and clears stale failure counters.
type Manager struct {
	registry *conversation.Registry
	idleTTL  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a lifecycle manager. Conversations idle longer than
// idleTTL are ended; those idle longer than half of it lose their failure
// count so a returning user is not greeted by an apology.
func NewManager(reg *conversation.Registry, idleTTL time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: reg,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// Run executes all lifecycle operations.
func (m *Manager) Run(ctx context.Context, dryRun bool) (*Report, error) {
	report := &Report{}
	if m.idleTTL <= 0 {
		return report, nil
	}
	now := m.now()

	// 1. Idle expiry
	expired := make(map[string]bool)
	for _, id := range m.registry.Idle(now.Add(-m.idleTTL)) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		m.logger.Info("expiring idle conversation", "id", id)
		if !dryRun {
			if err := m.registry.End(id); err != nil {
				m.logger.Error("ending idle conversation", "id", id, "error", err)
				continue
			}
			metrics.Inc(metrics.LifecycleExpired)
		}
		expired[id] = true
		report.Expired++
	}

	// 2. Stale failure counters
	for _, id := range m.registry.Idle(now.Add(-m.idleTTL / 2)) {
		if expired[id] {
			continue
		}
		c, err := m.registry.Get(id)
		if err != nil || c.Failures() == 0 {
			continue
		}
		m.logger.Debug("resetting stale failure counter", "id", id, "failures", c.Failures())
		if !dryRun {
			c.ResetFailures()
		}
		report.Reset++
	}

	return report, nil
}

// Loop runs the manager every interval until ctx is cancelled.
func (m *Manager) Loop(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.idleTTL <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if r, err := m.Run(ctx, false); err == nil && (r.Expired > 0 || r.Reset > 0) {
				m.logger.Info("lifecycle run", "expired", r.Expired, "reset", r.Reset)
			}
		}
	}
}
