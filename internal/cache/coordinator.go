// Package cache coordinates a volatile store, a durable store, and the
// recompute pipeline under a freshness and fallback policy.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/echohtp/poolboyz/internal/model"
)

// Status tags where a served payload came from.
type Status string

const (
	StatusHit        Status = "HIT"
	StatusMiss       Status = "MISS"
	StatusRefresh    Status = "REFRESH"
	StatusDBHit      Status = "DB-HIT"
	StatusDBRefresh  Status = "DB-REFRESH"
	StatusDBFallback Status = "DB-FALLBACK"
	StatusBypass     Status = "BYPASS"
)

// Entry is the cached envelope. LastUpdated moves on every recompute;
// CreatedAt is set once when a key first appears. Both are epoch
// milliseconds and LastUpdated >= CreatedAt always holds.
type Entry struct {
	Payload     json.RawMessage `json:"payload"`
	LastUpdated int64           `json:"last_updated"`
	CreatedAt   int64           `json:"created_at"`
}

// Age returns how long ago the entry was last recomputed.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(e.LastUpdated))
}

// Snapshots is the durable tier: idempotent upserts keyed by the
// normalized query key, reads regardless of freshness.
type Snapshots interface {
	GetSnapshot(ctx context.Context, key Key) (Entry, bool, error)
	UpsertSnapshot(ctx context.Context, key Key, entry Entry) error
}

// Result is a resolved payload together with its source tag.
type Result struct {
	Entry  Entry
	Status Status
}

// RecomputeFunc runs the decode + aggregate pipeline for a key.
type RecomputeFunc func(ctx context.Context) (json.RawMessage, error)

// Coordinator implements the tiered freshness policy: volatile read,
// durable read, recompute, durable fallback. Durable writes are
// detached from the request; their failures are logged, never served.
type Coordinator struct {
	volatile Store
	durable  Snapshots
	logger   *zap.Logger
	now      func() time.Time
	disabled bool

	writeTimeout time.Duration
	wg           sync.WaitGroup
}

// Options configures a Coordinator.
type Options struct {
	// Disabled turns every resolve into a plain recompute tagged
	// BYPASS. Selected once at process start, not per call.
	Disabled bool
	// WriteTimeout bounds the detached durable write.
	WriteTimeout time.Duration
}

// NewCoordinator builds a coordinator over the two tiers. Either tier
// may be absent (NopStore / nil snapshots) for offline modes.
func NewCoordinator(volatile Store, durable Snapshots, opts Options, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if volatile == nil {
		volatile = NopStore{}
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	return &Coordinator{
		volatile:     volatile,
		durable:      durable,
		logger:       logger,
		now:          time.Now,
		disabled:     opts.Disabled,
		writeTimeout: opts.WriteTimeout,
	}
}

// Resolve serves the freshest acceptable payload for a key. freshness
// is the maximum age served without recomputation; ttl bounds volatile
// retention and must exceed freshness.
func (c *Coordinator) Resolve(ctx context.Context, key Key, freshness, ttl time.Duration, recompute RecomputeFunc) (Result, error) {
	if c.disabled {
		payload, err := recompute(ctx)
		if err != nil {
			return Result{}, err
		}
		nowMs := c.now().UnixMilli()
		return Result{
			Entry:  Entry{Payload: payload, LastUpdated: nowMs, CreatedAt: nowMs},
			Status: StatusBypass,
		}, nil
	}

	now := c.now()
	storeKey := key.String()

	// Volatile tier. Read errors degrade to a miss; the store is a
	// cache, not a dependency.
	var prior *Entry
	status := StatusMiss
	if raw, ok, err := c.volatile.Get(ctx, storeKey); err != nil {
		c.logger.Warn("volatile read failed", zap.String("key", storeKey), zap.Error(err))
	} else if ok {
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			c.logger.Warn("volatile entry corrupt", zap.String("key", storeKey), zap.Error(err))
		} else if entry.Age(now) < freshness {
			return Result{Entry: entry, Status: StatusHit}, nil
		} else {
			// Stale volatile data is never served silently.
			prior = &entry
			status = StatusRefresh
		}
	}

	// Durable tier, consulted only on a volatile miss.
	if prior == nil && c.durable != nil {
		entry, ok, err := c.durable.GetSnapshot(ctx, key)
		if err != nil {
			c.logger.Warn("durable read failed", zap.String("key", storeKey), zap.Error(err))
		} else if ok {
			if entry.Age(now) < freshness {
				c.setVolatile(ctx, storeKey, entry, ttl)
				return Result{Entry: entry, Status: StatusDBHit}, nil
			}
			prior = &entry
			status = StatusDBRefresh
		}
	}

	payload, err := recompute(ctx)
	if err != nil {
		// A well-formed empty result is the answer, not a fault; the
		// stale fallback must not mask it.
		if model.IsEmptyResult(err) {
			return Result{}, err
		}
		// One fallback read regardless of freshness: stale data beats
		// no data when the upstream is down.
		if c.durable != nil {
			entry, ok, dbErr := c.durable.GetSnapshot(ctx, key)
			if dbErr != nil {
				c.logger.Warn("fallback read failed", zap.String("key", storeKey), zap.Error(dbErr))
			} else if ok {
				c.logger.Info("serving stale durable entry",
					zap.String("key", storeKey),
					zap.Duration("age", entry.Age(now)),
					zap.Error(err),
				)
				return Result{Entry: entry, Status: StatusDBFallback}, nil
			}
		}
		return Result{}, err
	}

	entry := Entry{
		Payload:     payload,
		LastUpdated: now.UnixMilli(),
		CreatedAt:   now.UnixMilli(),
	}
	if prior != nil && prior.CreatedAt > 0 {
		entry.CreatedAt = prior.CreatedAt
	}

	c.setVolatile(ctx, storeKey, entry, ttl)
	c.persistDetached(key, entry)

	return Result{Entry: entry, Status: status}, nil
}

func (c *Coordinator) setVolatile(ctx context.Context, storeKey string, entry Entry, ttl time.Duration) {
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("marshal cache entry", zap.String("key", storeKey), zap.Error(err))
		return
	}
	if err := c.volatile.SetWithTTL(ctx, storeKey, raw, ttl); err != nil {
		c.logger.Warn("volatile write failed", zap.String("key", storeKey), zap.Error(err))
	}
}

// persistDetached upserts the entry into the durable store without
// blocking or failing the request. The write outlives the request
// context deliberately; a client disconnect must not drop the snapshot.
func (c *Coordinator) persistDetached(key Key, entry Entry) {
	if c.durable == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
		defer cancel()
		if err := c.durable.UpsertSnapshot(ctx, key, entry); err != nil {
			c.logger.Warn("durable write failed", zap.String("key", key.String()), zap.Error(err))
		}
	}()
}

// Wait blocks until detached durable writes have drained. Called on
// shutdown and by tests.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
