package kumiai

import (
	"strings"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds the build/deploy-time switches of a Manager.
type Config struct {
	// ErrorMode is "panic" (default) or "callback".
	ErrorMode string `config:"KUMIAI_ERROR_MODE"`
	// LogLevel is a zerolog level name; empty leaves the logger untouched.
	LogLevel string `config:"KUMIAI_LOG_LEVEL"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{ErrorMode: "panic"}
}

// LoadConfig reads the configuration from the environment, falling back to
// DefaultConfig for unset keys.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "failed to load kumiai config from env")
	}
	if _, err := cfg.errorMode(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.logLevel(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) errorMode() (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(c.ErrorMode)) {
	case "", "panic":
		return ErrorModePanic, nil
	case "callback":
		return ErrorModeCallback, nil
	}
	return ErrorModePanic, eris.Errorf("invalid error mode %q, want panic or callback", c.ErrorMode)
}

func (c Config) logLevel() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.NoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, eris.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}
