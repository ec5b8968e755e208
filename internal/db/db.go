package db

import (
	"fmt"

	"wrongness-portfolio/internal/config"
	"wrongness-portfolio/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB 按 store.driver 打开 sqlite 或 mysql，并迁移状态表
func InitDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Store.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.Path)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.DBName,
			cfg.Database.Charset,
		)
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("驱动 %q 不使用数据库", cfg.Store.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	log.Info("数据库初始化成功", zap.String("driver", cfg.Store.Driver))
	return gdb, nil
}

// Migrate 自动迁移
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&model.StateEntry{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}
