package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the application configuration. Values are read from a YAML file
// and can be overridden by environment variables.
type Config struct {
	// Environment is either development or production.
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set.
	LogLevel string `env:"LOG_LEVEL" env-default:"" yaml:"logLevel"`

	HTTP struct {
		Addr              string        `env:"HTTP_ADDR"                env-default:":8080"    yaml:"addr"`
		ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT"        env-default:"1m"       yaml:"readTimeout"`
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"      yaml:"readHeaderTimeout"`
		WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT"       env-default:"2m"       yaml:"writeTimeout"`
		IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT"        env-default:"2m"       yaml:"idleTimeout"`
		// RequestTimeout bounds the handling of a single request.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT"   env-default:"10s"      yaml:"requestTimeout"`
		MaxHeaderBytes int           `env:"HTTP_MAX_HEADER_BYTES"  env-default:"0"        yaml:"maxHeaderBytes"`
		MetricsPath    string        `env:"HTTP_METRICS_PATH"      env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigins lists CORS origins; "*" allows any.
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-default:"*" env-separator:"," yaml:"allowedOrigins"`
	} `yaml:"http"`

	Database struct {
		Username           string        `env:"DATABASE_USERNAME"                 env-default:"myuser"     yaml:"username"`
		Password           string        `env:"DATABASE_PASSWORD"                 env-default:"mypassword" yaml:"password"`
		Host               string        `env:"DATABASE_HOST"                     env-default:"localhost"  yaml:"host"`
		Port               int           `env:"DATABASE_PORT"                     env-default:"5432"       yaml:"port"`
		SslMode            string        `env:"DATABASE_SSL_MODE"                 env-default:"disable"    yaml:"sslMode"`
		DatabaseName       string        `env:"DATABASE_NAME"                     env-default:"users"      yaml:"name"`
		MaxOpenConnections int           `env:"DATABASE_MAX_OPEN_CONNECTIONS"     env-default:"10"         yaml:"maxOpenConnections"`
		MaxIdleConnections int           `env:"DATABASE_MAX_IDLE_CONNECTIONS"     env-default:"8"          yaml:"maxIdleConnections"`
		ConnMaxLifetime    time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME"  env-default:"3m"         yaml:"connMaxLifetime"`
		ConnMaxIdleTime    time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m"         yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `env:"REDIS_ADDR"     env-default:"localhost:6379" yaml:"addr"`
		Password string `env:"REDIS_PASSWORD" env-default:""               yaml:"password"`
		DB       int    `env:"REDIS_DB"       env-default:"0"              yaml:"db"`
		// CacheTTL is how long a looked-up user name stays cached.
		CacheTTL time.Duration `env:"REDIS_CACHE_TTL" env-default:"10m" yaml:"cacheTTL"`
	} `yaml:"redis"`

	JWT struct {
		// PublicKey is the PEM encoded RSA key used to verify bearer tokens.
		// Authentication is disabled when empty.
		PublicKey string `env:"JWT_PUBLIC_KEY" env-default:"" yaml:"publicKey"`
		// PrivateKey is the PEM encoded RSA key used by the jwt command.
		PrivateKey string `env:"JWT_PRIVATE_KEY" env-default:"" yaml:"privateKey"`
	} `yaml:"jwt"`

	Worker struct {
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
	} `yaml:"worker"`

	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads the YAML file at configPath and applies environment overrides.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
