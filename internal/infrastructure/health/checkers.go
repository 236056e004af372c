package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/skateshop/storefront/internal/core/ports"
	infraDB "github.com/skateshop/storefront/internal/infrastructure/db"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client redis.UniversalClient }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.UniversalClient) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// funcChecker adapts a probe function, used for upstream APIs and the event broker.
type funcChecker struct {
	name  string
	check func(ctx context.Context) error
}

func (f *funcChecker) Name() string                    { return f.name }
func (f *funcChecker) Check(ctx context.Context) error { return f.check(ctx) }

// NewFuncChecker creates a named health checker from a probe function.
func NewFuncChecker(name string, check func(ctx context.Context) error) ports.HealthChecker {
	return &funcChecker{name: name, check: check}
}
