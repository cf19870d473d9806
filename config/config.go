// Package config 从环境变量读取服务配置
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Addr           string `env:"TYCOON_ADDR" envDefault:":8000"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	// RedisAddr 为空时游戏日志只存在内存里
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// CORSAllowOrigins 为空表示允许所有来源
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`

	WSSendBuffer    int           `env:"WS_SEND_BUFFER" envDefault:"64"`
	GameLogLimit    int           `env:"GAME_LOG_LIMIT" envDefault:"500"`
	GameLogTTL      time.Duration `env:"GAME_LOG_TTL" envDefault:"24h"`
	RecorderBuffer  int           `env:"RECORDER_BUFFER" envDefault:"1024"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.WSSendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", c.WSSendBuffer)
	}
	if c.RecorderBuffer <= 0 {
		return fmt.Errorf("RECORDER_BUFFER must be positive, got %d", c.RecorderBuffer)
	}
	if c.GameLogLimit <= 0 {
		return fmt.Errorf("GAME_LOG_LIMIT must be positive, got %d", c.GameLogLimit)
	}
	if c.GameLogTTL < 0 {
		return fmt.Errorf("GAME_LOG_TTL must not be negative")
	}
	return nil
}

func (c Config) UseRedis() bool {
	return c.RedisAddr != ""
}
