package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilConfig is returned when Load is called with a nil pointer.
var ErrNilConfig = errors.New("config must not be nil")

var (
	mu    sync.Mutex
	cache = make(map[reflect.Type]any)

	// .env loading happens once per process; a missing file is not an error.
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. The first successful load of a
// given type is cached; subsequent calls for the same type return the cached
// value without touching the environment again.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(*cfg)
	if cached, ok := cache[t]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to load config %s: %w", t.Name(), err)
	}

	cache[t] = *cfg
	return nil
}

// MustLoad is like Load but panics on failure. Useful at startup where a
// missing required variable should stop the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
