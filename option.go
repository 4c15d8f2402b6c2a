package kumiai

import "github.com/rs/zerolog"

// Option augments how a Manager is constructed.
type Option func(*Manager)

// WithLogger sets the logger. The manager adds its own id as the "manager"
// field. The default is zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithErrorCallback switches the manager to callback mode: cb is invoked with
// the error code, then the process exits.
func WithErrorCallback(cb ErrorCallback) Option {
	return func(m *Manager) {
		m.errs.mode = ErrorModeCallback
		m.errs.callback = cb
	}
}

// WithExitFunc replaces os.Exit in callback mode. If fn returns, the manager
// panics with the reported error instead of continuing.
func WithExitFunc(fn func(code int)) Option {
	return func(m *Manager) {
		m.errs.exit = fn
	}
}

// WithConfig applies a Config loaded with LoadConfig. Invalid values panic.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		mode, err := cfg.errorMode()
		if err != nil {
			panic(err)
		}
		lvl, err := cfg.logLevel()
		if err != nil {
			panic(err)
		}
		m.errs.mode = mode
		if lvl != zerolog.NoLevel {
			m.log = m.log.Level(lvl)
		}
	}
}
