package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DevJWTSecret is the fallback signing secret used when JWT_SECRET is not
// set. Fine for local development, a footgun in production; main logs a
// warning when it is in effect.
const DevJWTSecret = "dev-secret"

type Config struct {
	Port           string `env:"PORT,             default=8080"`
	Env            string `env:"ENV,              default=development"`
	LogLevel       string `env:"LOG_LEVEL,        default=info"`
	JWTSecret      string `env:"JWT_SECRET"`
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Upload UploadConfig
	Worker WorkerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=scanapi"`
}

// RedisConfig configures the classification result cache. An empty Addr
// disables the cache entirely.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// UploadConfig controls upload ingestion. MaxBytes defaults to 10 MiB,
// plenty for an MRI image; raise it only when compatibility with oversized
// clients is required.
type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR,       default=./uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=10485760"`
}

type WorkerConfig struct {
	Python        string        `env:"WORKER_PYTHON,         default=python3"`
	Script        string        `env:"WORKER_SCRIPT,         default=./worker/predict_combined.py"`
	Extractor     string        `env:"WORKER_EXTRACTOR,      default=./models/feature_extractor.h5"`
	Classifier    string        `env:"WORKER_CLASSIFIER,     default=./models/xgb_model.joblib"`
	Timeout       time.Duration `env:"WORKER_TIMEOUT,        default=60s"`
	MaxConcurrent int           `env:"WORKER_MAX_CONCURRENT, default=4"`
}

// SessionSecret returns the configured signing secret, falling back to the
// development default when unset.
func (c *Config) SessionSecret() string {
	if c.JWTSecret == "" {
		return DevJWTSecret
	}
	return c.JWTSecret
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
