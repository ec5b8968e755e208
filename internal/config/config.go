package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// StoreConfig 状态存储后端：memory / sqlite / mysql / redis
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// 为 false 时缺失的集合用空列表初始化，而不是示例数据
	Seed bool `yaml:"seed"`
}

type DatabaseConfig struct {
	// sqlite 文件路径，":memory:" 表示内存库
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Charset  string `yaml:"charset"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// key 前缀，例如 "portfolio:"
	Prefix string `yaml:"prefix"`
}

type MetricsConfig struct {
	// 成功率是否截断到 100（两种历史实现在这一点上不一致）
	ClampSuccessRate *bool `yaml:"clamp_success_rate"`
}

// ClampEnabled 未配置时默认截断
func (m MetricsConfig) ClampEnabled() bool {
	if m.ClampSuccessRate == nil {
		return true
	}
	return *m.ClampSuccessRate
}

func LoadConfig(path string) (*Config, error) {
	// .env 可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	var config Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// 没有配置文件时完全依赖默认值和环境变量
	default:
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	applyEnv(&config)
	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "mysql", "redis":
	default:
		return fmt.Errorf("不支持的存储驱动: %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("端口不合法: %d", c.Server.Port)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Database.Path == "" {
		c.Database.Path = "portfolio.db"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "portfolio:"
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv("PORTFOLIO_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("PORTFOLIO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORTFOLIO_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("PORTFOLIO_SEED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Store.Seed = b
		}
	}
	if v := os.Getenv("PORTFOLIO_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("PORTFOLIO_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("PORTFOLIO_REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("PORTFOLIO_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("PORTFOLIO_CLAMP_SUCCESS_RATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Metrics.ClampSuccessRate = &b
		}
	}
}
