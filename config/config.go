package config

import (
	"github.com/apex/log"
	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"8080"`
	Dsn           string `env:"DSN"`
	CorsOrigin    string `env:"CORS_ORIGIN" envDefault:"*"`
	MaxImageBytes int    `env:"MAX_IMAGE_BYTES" envDefault:"2000000"`
	PublicDir     string `env:"PUBLIC_DIR" envDefault:"./public"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Infof("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Errorf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}
