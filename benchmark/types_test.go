package benchmark

import (
	"testing"

	"github.com/danpasecinic/simpledi"
)

type Config struct {
	Host string
	Port int
}

type Logger struct {
	Level string
}

type Database struct {
	Config *Config
	Logger *Logger
}

type Cache struct {
	Logger *Logger
}

type Repository struct {
	DB    *Database
	Cache *Cache
}

type Service struct {
	Repo   *Repository
	Logger *Logger
}

func newConfig() *Config {
	return &Config{Host: "localhost", Port: 8080}
}

func newLogger() *Logger {
	return &Logger{Level: "info"}
}

func newDatabase(cfg *Config, log *Logger) *Database {
	return &Database{Config: cfg, Logger: log}
}

func newCache(log *Logger) *Cache {
	return &Cache{Logger: log}
}

func newRepository(db *Database, cache *Cache) *Repository {
	return &Repository{DB: db, Cache: cache}
}

func newService(repo *Repository, log *Logger) *Service {
	return &Service{Repo: repo, Logger: log}
}

var chain = []any{newConfig, newLogger, newDatabase, newCache, newRepository, newService}

func chainTypes(b *testing.B) *simpledi.Types {
	b.Helper()

	types := simpledi.NewTypes()
	for _, fn := range chain {
		if err := types.Provide(fn); err != nil {
			b.Fatal(err)
		}
	}
	return types
}
