package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Postgres struct {
		DSN string `env:"DATABASE_URL,required"`
	}

	Chain struct {
		RPCURL          string `env:"RPC_URL,required"`
		ChainID         int64  `env:"CHAIN_ID" envDefault:"146"`
		ContractAddress string `env:"TOKEN_CONTRACT_ADDRESS,required"`

		// Hex-encoded secp256k1 key used to sign claim authorizations.
		// Central trust anchor: whoever holds it can authorize minting.
		SignerKey string `env:"OWNER_PRIVATE_KEY,required"`

		// Bounded timeout applied to every RPC read.
		TimeoutSeconds int `env:"CHAIN_TIMEOUT_SECONDS" envDefault:"8"`
	}

	Auth struct {
		JWTSecret   string   `env:"JWT_SECRET_KEY,required"`
		APIKeys     []string `env:"VALID_API_KEYS" envSeparator:","`
		ResetSecret string   `env:"RESET_SECRET" envDefault:""`
	}

	RateLimit struct {
		WindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
		MaxRequests   int `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"1000"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// .env is optional; in production variables are set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
