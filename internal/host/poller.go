// Package host runs display components on a fixed update interval.
package host

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// DefaultInterval is the update interval used when none is configured.
const DefaultInterval = time.Second

// Component is updated by the Poller.
type Component interface {
	Update() error
}

// Poller calls Update on its component at a fixed interval. Updates are never run
// concurrently, so the component needs no locking as long as it is only touched from
// the Update call.
type Poller struct {
	Interval  time.Duration
	Component Component

	// Logger for update errors, uses the global zerolog logger if nil.
	Logger *zerolog.Logger

	// OnTick is called before every Update, it is optional.
	OnTick func(now time.Time)
}

// Run updates the component immediately and then on every tick until ctx is done.
// Failed updates are logged and polling continues.
func (p *Poller) Run(ctx context.Context) error {
	log := zlog.Logger
	if p.Logger != nil {
		log = *p.Logger
	}

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.update(log, time.Now())
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("poller stopped")
			return ctx.Err()
		case now := <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			p.update(log, now)
		}
	}
}

func (p *Poller) update(log zerolog.Logger, now time.Time) {
	if p.OnTick != nil {
		p.OnTick(now)
	}
	if err := p.Component.Update(); err != nil {
		log.Error().Err(err).Msg("update failed")
	}
}
