package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartmemory "github.com/dwikikusuma/storefront/internal/cart/infra/memory"
	cartredis "github.com/dwikikusuma/storefront/internal/cart/infra/redis"
	cartsql "github.com/dwikikusuma/storefront/internal/cart/infra/sqldb"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/storefront/internal/catalog/domain"
	catalogmemory "github.com/dwikikusuma/storefront/internal/catalog/infra/memory"
	"github.com/dwikikusuma/storefront/internal/catalog/infra/rediscache"
	catalogsql "github.com/dwikikusuma/storefront/internal/catalog/infra/sqldb"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/database"
	"github.com/dwikikusuma/storefront/pkg/redisx"
)

// deps holds the external connections the configured stores need. Either field
// may be nil when no store uses it.
type deps struct {
	db  *gorm.DB
	rdb *redis.Client
}

func openDeps(ctx context.Context, cfg config.Config, log *slog.Logger) (*deps, error) {
	d := &deps{}

	if cfg.CartStore == "sql" || cfg.CatalogStore == "sql" {
		db, err := database.Open(database.Config{
			Driver:          cfg.DBDriver,
			DSN:             cfg.DBDSN,
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		d.db = db
		log.Info("database connected", slog.String("driver", cfg.DBDriver))
	}

	if cfg.CartStore == "redis" || cfg.CatalogCache {
		d.rdb = redisx.New(redisx.Config{
			Addr:          cfg.RedisAddr,
			SentinelAddrs: cfg.RedisSentinelAddrs,
			MasterName:    cfg.RedisMasterName,
			DB:            cfg.RedisDB,
		}, log)
		if err := redisx.Ping(ctx, d.rdb, 5, log); err != nil {
			d.Close()
			return nil, err
		}
	}

	return d, nil
}

func (d *deps) productRepo(cfg config.Config, log *slog.Logger) (catalogapp.ProductRepo, error) {
	var repo catalogapp.ProductRepo

	switch cfg.CatalogStore {
	case "memory":
		var seed []catalogdomain.Product
		if cfg.CatalogSeed != "" {
			var err error
			seed, err = catalogmemory.LoadSeed(cfg.CatalogSeed)
			if err != nil {
				return nil, err
			}
			log.Info("catalog seeded", slog.Int("products", len(seed)))
		}
		repo = catalogmemory.NewProductRepo(seed...)
	case "sql":
		if err := catalogsql.Migrate(d.db); err != nil {
			return nil, fmt.Errorf("migrate products: %w", err)
		}
		repo = catalogsql.NewProductRepo(d.db)
	default:
		return nil, fmt.Errorf("unknown CATALOG_STORE %q", cfg.CatalogStore)
	}

	if cfg.CatalogCache {
		repo = rediscache.NewCachedRepo(repo, d.rdb, log, rediscache.Options{
			TTL:    10 * time.Minute,
			Jitter: time.Minute,
		})
	}
	return repo, nil
}

func (d *deps) cartRepo(cfg config.Config) (cartapp.CartRepo, error) {
	switch cfg.CartStore {
	case "memory":
		return cartmemory.NewCartRepo(), nil
	case "redis":
		return cartredis.NewCartRepo(d.rdb, cfg.CartTTL), nil
	case "sql":
		if err := cartsql.Migrate(d.db); err != nil {
			return nil, fmt.Errorf("migrate carts: %w", err)
		}
		return cartsql.NewCartRepo(d.db), nil
	default:
		return nil, fmt.Errorf("unknown CART_STORE %q", cfg.CartStore)
	}
}

func (d *deps) Ready(ctx context.Context) error {
	if d.db != nil {
		sqlDB, err := d.db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if d.rdb != nil {
		if err := d.rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (d *deps) Close() {
	if d.db != nil {
		if sqlDB, err := d.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if d.rdb != nil {
		_ = d.rdb.Close()
	}
}
