package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

type Options struct {
	TTL    time.Duration
	Jitter time.Duration
}

// CachedRepo is a read-through product cache in front of another ProductRepo.
// Redis calls run behind a circuit breaker and concurrent misses for one key are coalesced.
// While redis is failing or the breaker is open, reads go straight to the backing repo.
type CachedRepo struct {
	next app.ProductRepo
	rdb  redis.UniversalClient
	sf   singleflight.Group
	cb   *gobreaker.CircuitBreaker
	log  *slog.Logger
	opts Options
}

func NewCachedRepo(next app.ProductRepo, rdb redis.UniversalClient, log *slog.Logger, opts Options) *CachedRepo {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Minute
	}
	if opts.Jitter < 0 {
		opts.Jitter = 0
	}

	st := gobreaker.Settings{
		Name:        "catalog-cache",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CachedRepo{
		next: next,
		rdb:  rdb,
		cb:   gobreaker.NewCircuitBreaker(st),
		log:  log,
		opts: opts,
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *CachedRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return c.next.Create(ctx, p)
}

func (c *CachedRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	return c.next.List(ctx, query, limit, cursor)
}

func (c *CachedRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	key := productKey(id)

	val, err := c.cb.Execute(func() (interface{}, error) {
		res, err := c.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	cacheDown := err != nil
	if cacheDown {
		c.log.Warn("product cache unavailable, reading from store",
			slog.String("key", key),
			slog.Any("err", err))
	}

	if val != nil {
		var p domain.Product
		if err := json.Unmarshal([]byte(val.(string)), &p); err == nil {
			return p, nil
		}
		c.log.Error("product cache entry corrupt", slog.String("key", key), slog.Any("err", err))
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		p, err := c.next.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if cacheDown {
			return p, nil
		}
		data, err := json.Marshal(p)
		if err == nil {
			if err := c.rdb.Set(ctx, key, data, c.ttl()).Err(); err != nil {
				c.log.Warn("product cache write failed", slog.String("key", key), slog.Any("err", err))
			}
		}
		return p, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return result.(domain.Product), nil
}

func (c *CachedRepo) ttl() time.Duration {
	if c.opts.Jitter <= 0 {
		return c.opts.TTL
	}
	return c.opts.TTL + time.Duration(rand.Int63n(int64(c.opts.Jitter)))
}
