package quota

import (
	"os"
	"strconv"
	"strings"

	"github.com/mocksmith/mocksmith/internal/clock"
	"github.com/mocksmith/mocksmith/internal/config"
	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
	"github.com/mocksmith/mocksmith/internal/quota/service"
	"github.com/mocksmith/mocksmith/internal/quota/store"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("quota.service",
	fx.Provide(provideCounterStore),
	fx.Provide(provideLimitSource),
	fx.Provide(service.New),
)

// provideCounterStore selects the backing store at startup: redis when an
// address is configured, otherwise the process-local fallback.
func provideCounterStore(cfg config.Config, clk clock.Clock, log *zap.Logger) quotadomain.CounterStore {
	if cfg.RedisAddr == "" {
		log.Warn("no redis address configured, quota counters are process-local")
		return store.NewMemoryStore(clk)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return store.NewRedisStore(client)
}

// provideLimitSource re-reads the daily caps from the environment on every
// check so operators can adjust limits without a restart.
func provideLimitSource(cfg config.Config) quotadomain.LimitSource {
	return func() quotadomain.Limits {
		return quotadomain.Limits{
			Anonymous: envLimit("QUOTA_ANONYMOUS_DAILY_LIMIT", cfg.Quota.AnonymousDailyLimit),
			APIKey:    envLimit("QUOTA_API_KEY_DAILY_LIMIT", cfg.Quota.APIKeyDailyLimit),
		}
	}
}

func envLimit(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
