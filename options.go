package sqlstore

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// defaultIDGenerator seeds identifier columns on create.
func defaultIDGenerator() string {
	return uuid.NewString()
}

// An Option configures an Adapter.
type Option func(*Adapter)

// WithIDGenerator overrides the identifier generator used on create.
// The default produces UUID strings.
func WithIDGenerator(fn func() string) Option {
	return func(a *Adapter) {
		a.idgen = fn
	}
}

// WithLogger sets the logger the adapter reports operations to at debug
// level. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		a.log = l
	}
}

// WithClock overrides the time source used for soft-delete markers.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}
