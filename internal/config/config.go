package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"filesharing-service/internal/MinIO"
	"filesharing-service/internal/notifier"
	"filesharing-service/pkg/database/postgres"
	"filesharing-service/pkg/database/redis"
)

type Config struct {
	Env       string `env:"APP_ENV" env-default:"prod"`
	HTTPPort  string `env:"HTTP_PORT" env-default:"8080"`
	JWTSecret string `env:"JWT_TOKEN" env-required:"true"`

	Postgres postgres.Config
	Redis    redis.Config
	MinIO    MinIO.Config
	SMTP     notifier.Config
}

// Load reads ./.env when present, falling back to process environment.
func Load() (*Config, error) {
	var cfg Config
	if _, err := os.Stat(".env"); err == nil {
		if err := cleanenv.ReadConfig(".env", &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
