// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string `env:"OKURUNDAN_ADDR,default=:3000"`
	DataFile        string `env:"OKURUNDAN_DATA_FILE,default=db/db.json"`
	LogLevel        string `env:"OKURUNDAN_LOG_LEVEL,default=info"`
	LoginRatePerMin int    `env:"OKURUNDAN_LOGIN_RATE,default=30"`
	LoginRateBurst  int    `env:"OKURUNDAN_LOGIN_BURST,default=10"`
}

func Load() (Config, error) {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
