// Package config loads command configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the shared configuration surface for go-avatar commands.
type Config struct {
	// OSC endpoints. SendHost/SendPort is where the remote application
	// listens for parameter writes; ListenAddr is where it reports state.
	SendHost   string `env:"OSC_SEND_HOST" envDefault:"127.0.0.1"`
	SendPort   int    `env:"OSC_SEND_PORT" envDefault:"9000"`
	ListenAddr string `env:"OSC_LISTEN_ADDR" envDefault:"127.0.0.1:9001"`

	// Avatar identity.
	AvatarID     string   `env:"AVATAR_ID"`
	AvatarHeight float64  `env:"AVATAR_HEIGHT"`
	Forms        []string `env:"AVATAR_FORMS" envSeparator:","`

	// Engine behavior.
	AssumeBaseState     bool     `env:"ASSUME_BASE_STATE" envDefault:"true"`
	AccurateScaleEvents bool     `env:"ACCURATE_SCALE_EVENTS"`
	IgnorePrefixes      []string `env:"IGNORE_PREFIXES" envSeparator:","`
	FloatPrecision      int      `env:"FLOAT_PRECISION" envDefault:"3"`
	Verbose             bool     `env:"VERBOSE"`

	// Dashboard and adapters.
	WebPort  string `env:"WEB_PORT" envDefault:"8080"`
	MIDIPort string `env:"MIDI_PORT"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
