package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevJWTSecret is the signing secret used when JWT_SECRET is unset. Only the dev
// environment may run with it.
const DevJWTSecret = "dev-secret"

var ErrInsecureSecret = errors.New("JWT_SECRET must be set outside the dev environment")

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort    int
	HTTPPort    int
	GatewayPort int

	CartStore         string
	CartTTL           time.Duration
	CartMergeOnResize bool

	CatalogStore string
	CatalogCache bool
	CatalogSeed  string

	RedisAddr          string
	RedisSentinelAddrs []string
	RedisMasterName    string
	RedisDB            int

	DBDriver string
	DBDSN    string

	JWTSecret   string
	APIUpstream string
	StaticDir   string
}

func Load() Config {
	return Config{
		AppEnv:      getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		GRPCPort:    getEnvInt("GRPC_PORT", 8081),
		GatewayPort: getEnvInt("GATEWAY_PORT", 8000),

		CartStore:         strings.ToLower(getEnv("CART_STORE", "memory")),
		CartTTL:           getEnvDuration("CART_TTL", 0),
		CartMergeOnResize: getEnvBool("CART_MERGE_ON_RESIZE", false),

		CatalogStore: strings.ToLower(getEnv("CATALOG_STORE", "memory")),
		CatalogCache: getEnvBool("CATALOG_CACHE", false),
		CatalogSeed:  getEnv("CATALOG_SEED", ""),

		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisSentinelAddrs: getEnvList("REDIS_SENTINEL_ADDRS"),
		RedisMasterName:    getEnv("REDIS_MASTER_NAME", "mymaster"),
		RedisDB:            getEnvInt("REDIS_DB", 0),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:    getEnv("DB_DSN", "shopping:shoppingpassword@tcp(localhost:3306)/shopping_db?parseTime=true"),

		JWTSecret:   getEnv("JWT_SECRET", DevJWTSecret),
		APIUpstream: getEnv("API_UPSTREAM", "http://localhost:8080"),
		StaticDir:   getEnv("STATIC_DIR", "./web/dist"),
	}
}

// Validate rejects settings that are only safe for local development.
func (c Config) Validate() error {
	if c.AppEnv != "dev" && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return ErrInsecureSecret
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
