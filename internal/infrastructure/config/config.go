package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Superuser is the privileged identity allowed to administer any resource
	// without presenting its capability token.
	Superuser string `env:"SUPERUSER, default=administrator"`

	// Accreditation maps a category id (or "*") to pipe-separated caller
	// names allowed to register resources under it, e.g.
	// ACCREDITATION="*:broker1|broker2,cat-31500000:broker3"
	Accreditation map[string]string `env:"ACCREDITATION"`

	// PublicBase is the scheme+host this API is reachable on; canonical
	// document URLs are built against it.
	PublicBase string `env:"PUBLIC_BASE, default=http://localhost:8080"`

	ImageDir string `env:"IMAGE_DIR, default=/var/lib/catalog/images"`

	Mongo  MongoConfig
	Redis  RedisConfig
	DocSvc DocSvcConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=catalog"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type DocSvcConfig struct {
	Host   string `env:"DOCSVC_HOST, default=docs.example.net"`
	Secret string `env:"DOCSVC_SECRET"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
