package chat

import (
	"context"
	"time"

	"github.com/ridematch/client-go/internal/logging"
)

// Poller re-fetches an open conversation at a fixed interval while the
// realtime channel is down. While the channel is connected each tick is
// skipped, so realtime delivery is never doubled by polling. The poller
// stops when its context is cancelled; tying that context to the view's
// lifetime releases the goroutine deterministically.
type Poller struct {
	view      *ConversationView
	connected func() bool
	interval  time.Duration
	log       logging.Logger
}

// NewPoller builds a poller for view. connected reports whether the
// realtime channel is live; services.Messaging.ChannelConnected fits.
func NewPoller(view *ConversationView, connected func() bool, interval time.Duration, log logging.Logger) *Poller {
	return &Poller{view: view, connected: connected, interval: interval, log: log}
}

// Run blocks until ctx is cancelled, refreshing the view on every tick
// that finds the channel down. Call it in its own goroutine.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.connected() {
				continue
			}
			p.view.Refresh(ctx)
		}
	}
}
