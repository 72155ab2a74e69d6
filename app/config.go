package app

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joefazee/omen/app/database"
)

type Config struct {
	DB database.Config

	AppHost string `env:"APP_HOST" env-default:"localhost"`
	AppPort string `env:"APP_PORT" env-default:"8080"`
	Env     string `env:"APP_ENV" env-default:"development"`
}

// LoadConfig loads the application configuration from environment variables.
func LoadConfig() (*Config, error) {
	c := &Config{}
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, err
	}
	return c, nil
}
