package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisStore "github.com/eko/gocache/store/redis/v4"
	ristrettoStore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/grzegorzmaniak/posfee/helpers"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	KindMemory = "memory"
	KindRedis  = "redis"

	DefaultRistrettoMaxCost     = 1000000
	DefaultRistrettoNumCounters = DefaultRistrettoMaxCost * 10
	DefaultRistrettoBufferItems = 64
	DefaultExpiration           = 24 * time.Hour
	DefaultRedisAddr            = "localhost:6379"
)

// Config selects and sizes the store sessions are kept in.
type Config struct {
	// Kind is "memory" (ristretto, per process) or "redis" (shared between instances).
	// Empty means memory.
	Kind string

	// RistrettoMaxCost is the maximum total cost of the ristretto cache, every entry costs 1
	// so this is effectively the max number of live sessions.
	RistrettoMaxCost int64

	// RistrettoNumCounters should be around 10 * MaxCost.
	RistrettoNumCounters int64

	// RistrettoBufferItems is ristretto's Get buffer size, 64 is ristretto's own default.
	RistrettoBufferItems int64

	// DefaultExpiration is applied to Set calls that don't carry store.WithExpiration.
	DefaultExpiration time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Manager lazily builds the cache once and hands out the same instance afterwards.
type Manager struct {
	Config Config

	initOnce  sync.Once
	initError error
	instance  cache.CacheInterface[string]
	ristretto *ristretto.Cache
	redis     *redis.Client
}

func BuildManager(config *Config) *Manager {
	if config == nil {
		config = &Config{}
	}

	return &Manager{
		Config: *config,
	}
}

// GetCache returns the shared cache instance, building it on first use.
func (m *Manager) GetCache() (cache.CacheInterface[string], error) {
	m.initOnce.Do(func() {
		expiration := store.WithExpiration(helpers.Default(m.Config.DefaultExpiration, DefaultExpiration))

		switch helpers.Default(m.Config.Kind, KindMemory) {
		case KindMemory:
			client, err := ristretto.NewCache(&ristretto.Config{
				NumCounters: helpers.Default(m.Config.RistrettoNumCounters, DefaultRistrettoNumCounters),
				MaxCost:     helpers.Default(m.Config.RistrettoMaxCost, DefaultRistrettoMaxCost),
				BufferItems: helpers.Default(m.Config.RistrettoBufferItems, DefaultRistrettoBufferItems),
				Metrics:     false,
			})
			if err != nil {
				zap.L().Error("cache.Manager: failed to create ristretto client", zap.Error(err))
				m.initError = fmt.Errorf("ristretto client initialization failed: %w", err)
				return
			}

			m.ristretto = client
			m.instance = cache.New[string](ristrettoStore.NewRistretto(client, expiration))
			zap.L().Info("cache.Manager: ristretto session cache initialized")

		case KindRedis:
			m.redis = redis.NewClient(&redis.Options{
				Addr:     helpers.Default(m.Config.RedisAddr, DefaultRedisAddr),
				Password: m.Config.RedisPassword,
				DB:       m.Config.RedisDB,
			})
			m.instance = cache.New[string](redisStore.NewRedis(m.redis, expiration))
			zap.L().Info("cache.Manager: redis session cache initialized", zap.String("addr", m.redis.Options().Addr))

		default:
			m.initError = fmt.Errorf("unknown cache kind %q", m.Config.Kind)
		}
	})

	if m.initError != nil {
		return nil, m.initError
	}

	if m.instance == nil {
		zap.L().Error("cache.Manager: cache instance is nil after initialization without a stored error")
		return nil, fmt.Errorf("internal error: cache not initialized despite no explicit init error")
	}

	return m.instance, nil
}

// Sync blocks until ristretto has applied every buffered write, so a value that was
// just Set is visible to the next Get. Redis writes are synchronous already.
func (m *Manager) Sync() {
	if m.ristretto != nil {
		m.ristretto.Wait()
	}
}

// Ping checks that the cache can be used, redis is actually contacted.
func (m *Manager) Ping(ctx context.Context) error {
	if _, err := m.GetCache(); err != nil {
		return err
	}
	if m.redis != nil {
		if err := m.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}
	return nil
}

// Close releases the underlying client.
func (m *Manager) Close() error {
	if m.ristretto != nil {
		m.ristretto.Close()
	}
	if m.redis != nil {
		return m.redis.Close()
	}
	return nil
}

// IsNotFound reports whether err is the store's "missing key" error, for both backends.
// The stores return it by pointer or by value depending on the version.
func IsNotFound(err error) bool {
	var byPointer *store.NotFound
	var byValue store.NotFound
	return errors.As(err, &byPointer) || errors.As(err, &byValue)
}
