package internal

import "github.com/starford/goalpost/internal/store"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	store  store.Store
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore replaces the store selected by the configuration. The caller keeps
// ownership and closes it.
func WithStore(st store.Store) Option {
	return func(a *application) {
		a.store = st
	}
}
