package option

import (
	"context"

	"store-console/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterRefresher schedules periodic re-resolution of cached option
// lists so table- and script-backed dropdowns don't go stale in
// long-lived console sessions.
func RegisterRefresher(lc fx.Lifecycle, cfg *config.Config, service OptionService, logger *zap.Logger) {
	if cfg.OptionRefresh == "" {
		return
	}

	scheduler := cron.New()

	_, err := scheduler.AddFunc(cfg.OptionRefresh, func() {
		if err := service.RefreshCached(context.Background()); err != nil {
			logger.Warn("option cache refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("invalid option refresh schedule",
			zap.String("spec", cfg.OptionRefresh),
			zap.Error(err))
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
