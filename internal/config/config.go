package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     int    `env:"PORT,default=8080" validate:"min=1,max=65535"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	// Архив сообщений; пустой DATABASE_URL отключает его
	DatabaseURL string `env:"DATABASE_URL"`
	DBDriver    string `env:"DB_DRIVER,default=postgres" validate:"oneof=postgres sqlite"`

	// Черный список токенов; пустой REDIS_URL отключает проверку
	RedisURL string `env:"REDIS_URL"`

	// Идентичность из JWT; без секрета все соединения анонимны
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenDuration time.Duration `env:"TOKEN_DURATION,default=24h" validate:"gt=0"`

	HistoryCap   int    `env:"HISTORY_CAP,default=1000" validate:"min=1"`
	CatchUpLimit int    `env:"CATCH_UP_LIMIT,default=50" validate:"min=1"`
	DefaultRoom  string `env:"DEFAULT_ROOM,default=general" validate:"required,max=64"`
	SendBuffer   int    `env:"SEND_BUFFER,default=256" validate:"min=1"`

	PersistTimeout  time.Duration `env:"PERSIST_TIMEOUT,default=5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=30s" validate:"gt=0"`
}

// Load читает .env.local, затем .env (если есть), затем переменные окружения.
// Уже выставленные переменные окружения не перезаписываются.
func Load() (Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
