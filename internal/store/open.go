package store

import (
	"context"
	"fmt"
	"time"

	"wrongness-portfolio/internal/config"
	"wrongness-portfolio/internal/db"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Open 根据配置选择存储后端
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("使用内存存储，进程退出后数据丢失")
		return NewMemoryStore(), nil
	case "sqlite", "mysql":
		gdb, err := db.InitDB(cfg, log)
		if err != nil {
			return nil, err
		}
		return NewGormStore(gdb), nil
	case "redis":
		s, err := NewRedisStore(ctx, &redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		log.Info("Redis存储初始化成功",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
			zap.String("prefix", cfg.Redis.Prefix))
		return s, nil
	default:
		return nil, fmt.Errorf("不支持的存储驱动: %q", cfg.Store.Driver)
	}
}
