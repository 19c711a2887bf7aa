package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"*"`
	}

	Redis struct {
		// Кэш анонимной страницы включается только явно
		Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`

		PageCacheTTL time.Duration `env:"PAGE_CACHE_TTL" envDefault:"5m"`
	}

	Telegram struct {
		// Пустой токен: init data читается без проверки подписи
		BotToken    string        `env:"BOT_TOKEN"`
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
	}

	WebApp struct {
		Locale string `env:"WEBAPP_LOCALE" envDefault:"ru"`
	}
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	// .env is optional; in production variables are set directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d", cfg.Server.Port)
	}
	if cfg.Telegram.InitDataTTL < 0 {
		return nil, fmt.Errorf("invalid INIT_DATA_TTL: %s", cfg.Telegram.InitDataTTL)
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
