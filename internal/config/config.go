package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// DBDriver selects the persistence backend: "mysql" in production,
	// "sqlite" for local development.
	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"exchange.db"`

	// ChatServiceURL is the base URL of the chat subsystem; empty disables
	// the read-only signal.
	ChatServiceURL string `env:"CHAT_SERVICE_URL"`

	// TrackingSessionTTLSeconds bounds how long carrier-lookup session
	// artifacts are kept before eviction.
	TrackingSessionTTLSeconds int `env:"TRACKING_SESSION_TTL_SECONDS" envDefault:"300"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
