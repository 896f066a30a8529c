package rates

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/cashtimer/internal/models"
)

const DefaultInterval = 60 * time.Second

// Cache persists the last good rate table between runs.
type Cache interface {
	SaveRates(ctx context.Context, table *models.RateTable) error
	LoadRates(ctx context.Context) (*models.RateTable, error)
}

// Refresher keeps an up to date rate table. When the feed fails, the last
// good table stays in use.
type Refresher struct {
	feed     Feed
	cache    Cache
	table    *models.RateTable
	lastErr  error
	interval time.Duration
	mu       sync.RWMutex
}

// NewRefresher seeds the refresher with the cached table if there is one and
// the default table otherwise. cache may be nil.
func NewRefresher(
	ctx context.Context,
	feed Feed,
	cache Cache,
	interval time.Duration,
) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}

	r := &Refresher{
		feed:     feed,
		cache:    cache,
		interval: interval,
		table:    Default(),
	}

	if cache != nil {
		cached, err := cache.LoadRates(ctx)
		if err == nil && cached != nil && validate(cached) == nil {
			r.table = cached
		}
	}

	return r
}

// Table returns a snapshot of the current rate table.
func (r *Refresher) Table() *models.RateTable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Clone(r.table)
}

// Err returns the error of the last failed refresh, or nil if the last
// refresh succeeded.
func (r *Refresher) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastErr
}

// Refresh fetches the rates once.
func (r *Refresher) Refresh(ctx context.Context) error {
	table, err := r.feed.Fetch(ctx)
	if err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()

		slog.Warn("exchange rate refresh failed", slog.Any("error", err))

		return err
	}

	r.mu.Lock()
	r.table = table
	r.lastErr = nil
	r.mu.Unlock()

	if r.cache != nil {
		err = r.cache.SaveRates(ctx, table)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("caching exchange rates failed", slog.Any("error", err))
		}
	}

	slog.Debug(
		"exchange rates refreshed",
		slog.Int("currencies", len(table.Rates)),
	)

	return nil
}

// Start refreshes immediately and then on every interval until ctx is
// cancelled or the returned stop function is called. stop returns once the
// refresh loop has exited, so the cache can be closed after it.
func (r *Refresher) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = r.Refresh(ctx)

		t := time.NewTicker(r.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = r.Refresh(ctx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
