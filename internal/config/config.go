package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/rocketscienceinc/connect-four/internal/entity"
)

const (
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrBoardTooSmall = errors.New("board needs at least 4 rows and 4 columns")
	ErrMissingDSN    = errors.New("postgres storage needs postgres-dsn")
)

type Config struct {
	LogLevel     string              `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile      string              `yaml:"log-file" env:"LOG_FILE" env-default:"connect4.log"`
	OpenerPolicy entity.OpenerPolicy `yaml:"opener-policy" env:"OPENER_POLICY" env-default:"alternate"`
	Board        Board               `yaml:"board"`
	Storage      Storage             `yaml:"storage"`
	Redis        Redis               `yaml:"redis"`
}

type Board struct {
	Rows    int `yaml:"rows" env:"BOARD_ROWS" env-default:"6"`
	Columns int `yaml:"columns" env:"BOARD_COLUMNS" env-default:"7"`
}

type Storage struct {
	Driver      string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath  string `yaml:"sqlite-path" env:"SQLITE_PATH" env-default:"./save/connect4.db"`
	PostgresDSN string `yaml:"postgres-dsn" env:"POSTGRES_DSN"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations from the config file, the environment and an optional .env file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

// Load reads path when it exists and falls back to the environment alone otherwise.
func Load(path string) (*Config, error) {
	// a missing .env is the normal case
	_ = godotenv.Load()

	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	} else if err = cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Board.Rows < entity.MinSize || that.Board.Columns < entity.MinSize {
		return fmt.Errorf("%w: got %dx%d", ErrBoardTooSmall, that.Board.Rows, that.Board.Columns)
	}

	if !that.OpenerPolicy.Valid() {
		return fmt.Errorf("%w: %q", entity.ErrUnknownPolicy, that.OpenerPolicy)
	}

	switch that.Storage.Driver {
	case DriverSQLite, DriverRedis:
	case DriverPostgres:
		if that.Storage.PostgresDSN == "" {
			return ErrMissingDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, that.Storage.Driver)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
