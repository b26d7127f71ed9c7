package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsing is returned when environment variables cannot be parsed into
// the target struct. The underlying caarlos0/env error is joined to it and
// names the offending variable.
var ErrParsing = errors.New("failed to parse environment configuration")

var (
	dotenvOnce sync.Once
	cache      sync.Map // map[reflect.Type]any
)

// Load fills cfg from the process environment. A .env file in the working
// directory is applied once, before the first load; its absence is not an
// error. Values are cached per type, so later calls for the same type
// return the first result without re-reading the environment.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil target", ErrParsing)
	}

	loadDotenv()

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return errors.Join(ErrParsing, err)
	}

	actual, _ := cache.LoadOrStore(key, fresh)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on failure. Intended for process startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

func loadDotenv() {
	dotenvOnce.Do(func() {
		// Missing .env is fine; existing variables win over its entries.
		_ = godotenv.Load()
	})
}

// reset drops every cached configuration. Test helper.
func reset() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}
