package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type HTTPServer struct {
	// empty disables the local /metrics and /health listener
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:""`
}

type Backend struct {
	BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:8080"`
	// zero means no timeout; a hung request stays pending until the caller cancels
	RequestTimeout time.Duration `yaml:"request_timeout" env:"BACKEND_REQUEST_TIMEOUT" env-default:"0s"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type CacheConfig struct {
	// memory or redis
	Driver     string        `yaml:"driver" env:"CACHE_DRIVER" env-default:"memory"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"0s"`
}

type Notifications struct {
	AdminTTL  time.Duration `yaml:"admin_ttl" env:"NOTICE_ADMIN_TTL" env-default:"5s"`
	BrowseTTL time.Duration `yaml:"browse_ttl" env:"NOTICE_BROWSE_TTL" env-default:"3s"`
}

type Display struct {
	Locale   string `yaml:"locale" env:"DISPLAY_LOCALE" env-default:"en-LK"`
	Currency string `yaml:"currency" env:"DISPLAY_CURRENCY" env-default:"Rs."`
}

type Catalog struct {
	Categories []string `yaml:"categories" env:"CATALOG_CATEGORIES" env-default:"Electronics,Fashion,Footwear,Home & Kitchen,Books,Sports,Beauty,Toys,Groceries"`
}

type Otel struct {
	ServiceName string `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"lankabuy-console"`
	// empty disables trace export
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT" env-default:""`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Config struct {
	Env           string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer    `yaml:"http_server"`
	Backend       Backend       `yaml:"backend"`
	RedisConnect  RedisConnect  `yaml:"redis"`
	Cache         CacheConfig   `yaml:"cache"`
	Notifications Notifications `yaml:"notifications"`
	Display       Display       `yaml:"display"`
	Catalog       Catalog       `yaml:"catalog"`
	Otel          Otel          `yaml:"otel"`
	Log           Log           `yaml:"log"`
}

// MustLoad resolves the config file from CONFIG_PATH, then the -config flag,
// then ./config/local.yaml. Without any file it reads the environment only.
func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "path to the YAML config file")

		if !flag.Parsed() {
			flag.Parse()
		}

		configPath = *flags
	}

	if configPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			configPath = defaultConfigPath
		}
	}

	var (
		cfg *Config
		err error
	)

	if configPath == "" {
		cfg, err = LoadFromEnv()
	} else {
		cfg, err = LoadConfigFromPath(configPath)
	}

	if err != nil {
		log.Fatalf("can not read config: %s", err.Error())
	}

	return cfg
}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

func LoadFromEnv() (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("can not read environment: %w", err)
	}

	return &cfg, nil
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}
