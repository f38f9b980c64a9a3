package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverMongo  = "mongo"
	DriverNeo4j  = "neo4j"
	DriverSQLite = "sqlite"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Env   string `env:"ENV" env-default:"prod"`
	HTTP  HTTPConfig
	Store StoreConfig
}

type HTTPConfig struct {
	Host            string        `env:"HOST" env-default:"0.0.0.0"`
	Port            string        `env:"PORT" env-default:"5000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
}

type StoreConfig struct {
	Driver         string        `env:"STORE_DRIVER" env-default:"mongo"`
	ConnectTimeout time.Duration `env:"STORE_CONNECT_TIMEOUT" env-default:"10s"`
	Mongo          MongoConfig
	Neo4j          Neo4jConfig
	SQLite         SQLiteConfig
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database   string `env:"MONGO_DATABASE" env-default:"todo"`
	Collection string `env:"MONGO_COLLECTION" env-default:"todos"`
}

type Neo4jConfig struct {
	URI      string `env:"NEO4J_URI" env-default:"neo4j://localhost:7687"`
	Username string `env:"NEO4J_USERNAME" env-default:"neo4j"`
	Password string `env:"NEO4J_PASSWORD"`
	Database string `env:"NEO4J_DATABASE"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" env-default:"todos.db"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %q", c.Env)
	}

	switch c.Store.Driver {
	case DriverMongo, DriverNeo4j, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}

	if c.HTTP.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}
