package bootstrap

import (
	"github.com/mengfanShi/MiniCPM-V/internal/history"
	"github.com/mengfanShi/MiniCPM-V/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideHistoryStore(db *gorm.DB) *history.Store {
	return history.NewStore(db)
}

// ProvideMetricsStore returns nil when redis is disabled.
func ProvideMetricsStore(redisClient *redis.Client) *metrics.Store {
	if redisClient == nil {
		return nil
	}
	return metrics.NewStore(redisClient)
}

func RunMigrations(historyStore *history.Store) error {
	return historyStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideHistoryStore,
		ProvideMetricsStore,
	),
	fx.Invoke(RunMigrations),
)
