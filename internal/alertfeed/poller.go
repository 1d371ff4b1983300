package alertfeed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"surveillance-dashboard/internal/model"
)

const DefaultInterval = 30 * time.Second

// Fetcher returns the current dashboard snapshot.
type Fetcher interface {
	Snapshot(ctx context.Context) (model.Snapshot, error)
}

type PollState int

const (
	Idle PollState = iota
	Fetching
)

func (s PollState) String() string {
	if s == Fetching {
		return "fetching"
	}
	return "idle"
}

// Poller refreshes a Feed on a fixed interval. A failed fetch is logged and
// leaves the feed as it was. With a demo generator set, a poll that brings
// nothing new adds one synthetic alert.
type Poller struct {
	fetcher  Fetcher
	feed     *Feed
	interval time.Duration
	demo     *Generator
	log      zerolog.Logger

	// OnChange is called after the feed changed.
	OnChange func(*Feed)

	mu    sync.Mutex
	state PollState

	// Seed and Poll run on one goroutine, mark needs no lock.
	mark watermark
}

// watermark remembers the newest real event seen. Events at the boundary
// timestamp are told apart by id. Demo alerts never move it.
type watermark struct {
	at  time.Time
	ids map[string]struct{}
}

func (w *watermark) reset() {
	w.at = time.Time{}
	w.ids = nil
}

func (w *watermark) isNew(e model.Event) bool {
	if e.Timestamp.After(w.at) {
		return true
	}
	if !e.Timestamp.Equal(w.at) {
		return false
	}
	_, seen := w.ids[e.ID]
	return !seen
}

func (w *watermark) advance(events []model.Event) {
	for _, e := range events {
		switch {
		case e.Timestamp.After(w.at):
			w.at = e.Timestamp
			w.ids = map[string]struct{}{e.ID: {}}
		case e.Timestamp.Equal(w.at):
			if w.ids == nil {
				w.ids = map[string]struct{}{}
			}
			w.ids[e.ID] = struct{}{}
		}
	}
}

func NewPoller(fetcher Fetcher, feed *Feed, interval time.Duration, demo *Generator, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetcher:  fetcher,
		feed:     feed,
		interval: interval,
		demo:     demo,
		log:      log.With().Str("component", "alert_poller").Logger(),
	}
}

func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) setState(s PollState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Poller) fetch(ctx context.Context) (model.Snapshot, error) {
	p.setState(Fetching)
	defer p.setState(Idle)
	return p.fetcher.Snapshot(ctx)
}

// Seed fills the feed from the snapshot's recent events.
func (p *Poller) Seed(ctx context.Context) error {
	snap, err := p.fetch(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("initial alert load failed")
		if p.demo != nil {
			p.feed.Reset([]model.Event{p.demo.Next()})
			p.changed()
		}
		return err
	}
	p.mark.reset()
	p.mark.advance(snap.RecentEvents)
	p.feed.Reset(snap.RecentEvents)
	p.changed()
	return nil
}

// Poll runs one IDLE -> FETCHING -> IDLE cycle and returns how many alerts
// were added. Only events newer than the newest one already seen are added,
// so evicted alerts never come back.
func (p *Poller) Poll(ctx context.Context) int {
	snap, err := p.fetch(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("alert poll failed")
		return 0
	}

	fresh := make([]model.Event, 0, len(snap.RecentEvents))
	for _, e := range snap.RecentEvents {
		if p.mark.isNew(e) {
			fresh = append(fresh, e)
		}
	}
	p.mark.advance(fresh)
	if len(fresh) > p.feed.Cap() {
		fresh = fresh[:p.feed.Cap()]
	}

	added := p.feed.Add(fresh...)
	if added == 0 && p.demo != nil {
		added = p.feed.Add(p.demo.Next())
	}
	if added > 0 {
		p.changed()
	}
	return added
}

// Run seeds the feed and polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	_ = p.Seed(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

func (p *Poller) changed() {
	if p.OnChange != nil {
		p.OnChange(p.feed)
	}
}
