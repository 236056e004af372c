package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/skateshop/storefront/internal/core/ports"
)

// computeTimeout bounds a shared computation once it no longer follows a caller's ctx.
const computeTimeout = 30 * time.Second

var lookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache-aside lookups by namespace and result",
	},
	[]string{"namespace", "result"},
)

func init() {
	prometheus.MustRegister(lookupsTotal)
}

// Aside is a get-or-compute helper over a byte cache. Values are stored as JSON.
// Concurrent misses for the same key share a single computation.
type Aside struct {
	store     ports.Cache
	ttl       time.Duration
	namespace string
	group     singleflight.Group
	logger    *logrus.Logger
}

// NewAside creates a helper storing computed values for ttl. namespace prefixes every key.
func NewAside(store ports.Cache, namespace string, ttl time.Duration, logger *logrus.Logger) *Aside {
	return &Aside{store: store, ttl: ttl, namespace: namespace, logger: logger}
}

// Key joins parts into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

func (a *Aside) key(k string) string {
	if a.namespace == "" {
		return k
	}
	return a.namespace + ":" + k
}

// TTL returns the expiry applied by GetOrCompute.
func (a *Aside) TTL() time.Duration { return a.ttl }

// Get decodes the cached value for key into dst. A payload that cannot be decoded is a miss.
func (a *Aside) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := a.store.Get(ctx, a.key(key))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		a.warn(key, err, "cache: dropping undecodable entry")
		return false, nil
	}
	return true, nil
}

// Set stores value under key unconditionally.
func (a *Aside) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return a.store.Set(ctx, a.key(key), b, ttl)
}

// Has reports whether an unexpired entry exists for key.
func (a *Aside) Has(ctx context.Context, key string) bool {
	_, ok, err := a.store.Get(ctx, a.key(key))
	return err == nil && ok
}

// Delete removes key whatever its expiry state.
func (a *Aside) Delete(ctx context.Context, key string) error {
	return a.store.Delete(ctx, a.key(key))
}

func (a *Aside) warn(key string, err error, msg string) {
	if a.logger != nil {
		a.logger.WithFields(logrus.Fields{"namespace": a.namespace, "key": key}).WithError(err).Warn(msg)
	}
}

// GetOrCompute returns the cached value for key, or computes, stores and returns it on a miss.
// Cache failures degrade to computing the value.
func GetOrCompute[T any](ctx context.Context, a *Aside, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	return GetOrComputeTTL(ctx, a, key, a.ttl, compute)
}

// GetOrComputeTTL is GetOrCompute with an explicit expiry.
func GetOrComputeTTL[T any](ctx context.Context, a *Aside, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var v T
	hit, err := a.Get(ctx, key, &v)
	switch {
	case err != nil:
		lookupsTotal.WithLabelValues(a.namespace, "error").Inc()
		a.warn(key, err, "cache: read failed, recomputing")
	case hit:
		lookupsTotal.WithLabelValues(a.namespace, "hit").Inc()
		return v, nil
	default:
		lookupsTotal.WithLabelValues(a.namespace, "miss").Inc()
	}

	// The shared computation outlives any single caller; each caller waits on its own ctx.
	ch := a.group.DoChan(key, func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()

		var cached T
		if hit, err := a.Get(cctx, key, &cached); err == nil && hit {
			return cached, nil
		}
		fresh, err := compute(cctx)
		if err != nil {
			return nil, err
		}
		if err := a.Set(cctx, key, fresh, ttl); err != nil {
			a.warn(key, err, "cache: write failed")
		}
		return fresh, nil
	})

	var res any
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			var zero T
			return zero, r.Err
		}
		res = r.Val
	}
	out, ok := res.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected type from singleflight result")
	}
	return out, nil
}
