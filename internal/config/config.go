package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

var (
	ErrEnvVarNotFound = errors.New("environment variable not found")
	ErrUnknownDriver  = errors.New("unknown driver")
)

// ListenAddr is the fixed address the server binds to.
const ListenAddr = ":3000"

const (
	mongoURIEnvKey    = "MONGO_STRING_LOCAL"
	postgresDSNEnvKey = "POSTGRES_DSN"
	secretEnvKey      = "SECRET"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type App struct {
	MongoURI     string        `env:"MONGO_STRING_LOCAL"`
	PostgresDSN  string        `env:"POSTGRES_DSN"`
	Secret       string        `env:"SECRET"`
	StoreDriver  string        `env:"STORE_DRIVER" envDefault:"mongo"`
	SessionStore string        `env:"SESSION_STORE"`
	LogLevel     zapcore.Level `env:"LOG_LEVEL" envDefault:"info"`
	Redis        Redis         `envPrefix:"REDIS_"`
}

type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// NewApp reads the given dotenv files (".env" when none are given) into the
// process environment and parses it. Missing files are skipped and variables
// already set in the environment are never overridden.
func NewApp(envFiles ...string) (App, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, file := range envFiles {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return App{}, fmt.Errorf("load env file %q: %w", file, err)
		}
	}

	var app App
	if err := env.Parse(&app); err != nil {
		return App{}, fmt.Errorf("parse environment: %w", err)
	}

	if app.SessionStore == "" {
		app.SessionStore = app.StoreDriver
	}

	if err := app.validate(); err != nil {
		return App{}, err
	}

	return app, nil
}

func (a App) validate() error {
	switch a.StoreDriver {
	case DriverMongo:
		if a.MongoURI == "" {
			return fmt.Errorf("%w: %s", ErrEnvVarNotFound, mongoURIEnvKey)
		}
	case DriverPostgres:
		if a.PostgresDSN == "" {
			return fmt.Errorf("%w: %s", ErrEnvVarNotFound, postgresDSNEnvKey)
		}
	default:
		return fmt.Errorf("%w: store %q", ErrUnknownDriver, a.StoreDriver)
	}

	switch a.SessionStore {
	case DriverRedis:
	case a.StoreDriver:
	default:
		return fmt.Errorf("%w: session store %q with %s driver", ErrUnknownDriver, a.SessionStore, a.StoreDriver)
	}

	if a.Secret == "" {
		return fmt.Errorf("%w: %s", ErrEnvVarNotFound, secretEnvKey)
	}

	return nil
}
