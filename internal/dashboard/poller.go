// Package dashboard keeps the landing view's summary counters fresh by
// polling the four stats endpoints on a fixed interval.
package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ohana-pos/pos/internal/posapi"
)

const DefaultInterval = 5 * time.Second

// Stats is one snapshot of the dashboard counters.
type Stats struct {
	SalesTotal float64
	Products   int
	Clients    int
	Pending    int
}

// Poller refreshes the stats snapshot for as long as Run's context lives.
// A failed round logs and keeps the previous snapshot; the next tick tries
// again. There is no backoff, the interval is fixed.
type Poller struct {
	client   *posapi.Client
	interval time.Duration

	mu    sync.RWMutex
	stats Stats
}

func NewPoller(client *posapi.Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{client: client, interval: interval}
}

// Run polls until ctx is cancelled. It refreshes once immediately so the
// view never starts empty, then on every tick.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.refresh(ctx); err != nil {
		log.Printf("dashboard refresh failed: %v", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.refresh(ctx); err != nil {
				log.Printf("dashboard refresh failed: %v", err)
			}
		}
	}
}

// refresh fetches the four counters concurrently; the snapshot is replaced
// only when every fetch succeeded.
func (p *Poller) refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	var next Stats

	g.Go(func() error {
		var err error
		next.SalesTotal, err = p.client.SalesTotal(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		next.Products, err = p.client.ProductsCount(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		next.Clients, err = p.client.ClientsCount(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		next.Pending, err = p.client.PendingCount(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	p.mu.Lock()
	p.stats = next
	p.mu.Unlock()
	return nil
}

// Stats returns the latest snapshot.
func (p *Poller) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}
