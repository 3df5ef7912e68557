package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMySQL = "mysql"
	DriverMongo = "mongo"

	PolicyFirstWins = "first_wins"
	PolicyRejectAll = "reject_all"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	MySQL      MySQL   `yaml:"mysql"`
	Mongo      Mongo   `yaml:"mongo"`
	Redis      Redis   `yaml:"redis"`
	Import     Import  `yaml:"import"`
	Auth       Auth    `yaml:"auth"`
	CORS       CORS    `yaml:"cors"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"60s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mysql"`
}

type MySQL struct {
	User      string `yaml:"user" env:"DB_USER"`
	Password  string `yaml:"password" env:"DB_PASSWORD"`
	Host      string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name      string `yaml:"name" env:"DB_NAME"`
	ParseTime bool   `yaml:"parse_time" env-default:"true"`
}

type Mongo struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"envanter"`
}

// Redis: пустой URL отключает кэш шаблонов.
type Redis struct {
	URL string        `yaml:"url" env:"REDIS_URL"`
	TTL time.Duration `yaml:"ttl" env-default:"5m"`
}

type Import struct {
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env-default:"10485760"`
	Timeout         time.Duration `yaml:"timeout" env-default:"60s"`
	DuplicatePolicy string        `yaml:"duplicate_policy" env:"IMPORT_DUPLICATE_POLICY" env-default:"first_wins"`
	ErrorLimit      int           `yaml:"error_limit" env-default:"20"`
}

type Auth struct {
	EditorLogin string `yaml:"editor_login" env:"EDITOR_LOGIN"`
	EditorPass  string `yaml:"editor_pass" env:"EDITOR_PASS"`
	ViewerLogin string `yaml:"viewer_login" env:"VIEWER_LOGIN"`
	ViewerPass  string `yaml:"viewer_pass" env:"VIEWER_PASS"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMySQL:
		if c.MySQL.User == "" || c.MySQL.Name == "" {
			return fmt.Errorf("mysql.user and mysql.name are required for driver %q", DriverMySQL)
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required for driver %q", DriverMongo)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Import.DuplicatePolicy {
	case PolicyFirstWins, PolicyRejectAll:
	default:
		return fmt.Errorf("unknown duplicate policy %q", c.Import.DuplicatePolicy)
	}

	if c.Import.MaxUploadBytes <= 0 {
		return fmt.Errorf("import.max_upload_bytes must be positive")
	}
	if c.Import.ErrorLimit <= 0 {
		return fmt.Errorf("import.error_limit must be positive")
	}

	return nil
}
