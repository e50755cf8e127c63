package screens

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"collablearn/internal/chain"
	"collablearn/internal/shared/telemetry"
)

// Dashboard lists the connected wallet's projects and keeps the list fresh.
// It prefers a registry event subscription and falls back to interval polling
// when the RPC endpoint cannot stream logs. Background refresh failures never
// replace data that already rendered.
type Dashboard struct {
	Screen[[]chain.Project]

	reader   ProjectReader
	watcher  ProjectWatcher
	owner    common.Address
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDashboard wires a dashboard for one wallet. watcher may be nil when the
// backend has no subscription support at all.
func NewDashboard(reader ProjectReader, watcher ProjectWatcher, owner common.Address, interval time.Duration) *Dashboard {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Dashboard{
		reader:   reader,
		watcher:  watcher,
		owner:    owner,
		interval: interval,
	}
}

// Start performs the initial load and begins background updates. It returns
// after the initial load completes; updates continue until Stop.
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	done := d.done
	d.mu.Unlock()

	d.Load(runCtx, d.fetch)
	go d.watchLoop(runCtx, done)
}

// Stop cancels background updates and waits for the loop to exit. After Stop
// no further state transitions occur.
func (d *Dashboard) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	done := d.done
	d.cancel = nil
	d.done = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (d *Dashboard) fetch(ctx context.Context) ([]chain.Project, error) {
	return d.reader.ListProjectsByOwner(ctx, d.owner)
}

func (d *Dashboard) watchLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if d.watcher != nil {
		if err := d.watchEvents(ctx); err == nil || ctx.Err() != nil {
			return
		}
		telemetry.Warn("dashboard.subscribe_failed", map[string]any{
			"fallback": "poll",
			"interval": d.interval.String(),
		})
	}
	d.pollLoop(ctx)
}

// watchEvents refreshes on each creation event. A nil return means the
// context ended; any error means the subscription could not be established
// or broke, and the caller should poll instead.
func (d *Dashboard) watchEvents(ctx context.Context) error {
	sink := make(chan chain.ProjectCreated, 8)
	errc, err := d.watcher.WatchProjectCreated(ctx, sink)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case ev := <-sink:
			if ev.Owner != d.owner {
				continue
			}
			d.refresh(ctx)
		}
	}
}

func (d *Dashboard) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.refresh(ctx)
		}
	}
}

func (d *Dashboard) refresh(ctx context.Context) {
	if err := d.Refresh(ctx); err != nil && ctx.Err() == nil {
		telemetry.Warn("dashboard.refresh_failed", map[string]any{"error": err.Error()})
	}
}
