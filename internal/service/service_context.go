package service

import (
	"context"

	"wrongness-portfolio/internal/config"
	"wrongness-portfolio/internal/store"

	"go.uber.org/zap"
)

type ServiceContext struct {
	Portfolio *Portfolio
	Log       *zap.Logger
}

func NewServiceContext(ctx context.Context, cfg *config.Config, st store.Store, log *zap.Logger) (*ServiceContext, error) {
	portfolio, err := NewPortfolio(ctx, st, log,
		WithSeed(cfg.Store.Seed),
		WithMetricsOptions(MetricsOptions{ClampSuccessRate: cfg.Metrics.ClampEnabled()}),
	)
	if err != nil {
		return nil, err
	}
	return &ServiceContext{
		Portfolio: portfolio,
		Log:       log,
	}, nil
}
