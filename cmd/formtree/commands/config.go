package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/reoring/formtree/i18n"
)

// Config is read from the environment, after loading a .env file from the
// working directory when one exists. Flags override it.
type Config struct {
	LogLevel  string `env:"FORMTREE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"FORMTREE_LOG_FORMAT" envDefault:"console"`
	FlatSep   string `env:"FORMTREE_FLAT_SEP" envDefault:"_"`
	PathSep   string `env:"FORMTREE_PATH_SEP" envDefault:"."`
	Lang      string `env:"FORMTREE_LANG" envDefault:"en"`
}

var dotenvLoaded sync.Once

// LoadConfig parses Config from the environment.
func LoadConfig() (Config, error) {
	dotenvLoaded.Do(func() {
		// A missing .env file is fine.
		_ = godotenv.Load()
	})
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.FlatSep == "" {
		return fmt.Errorf("flat separator must not be empty")
	}
	if c.PathSep == "" {
		return fmt.Errorf("path separator must not be empty")
	}
	if _, ok := i18n.Lookup(c.Lang); !ok {
		return fmt.Errorf("unsupported language %q", c.Lang)
	}
	return nil
}

// newLogger builds the command logger writing to w.
func newLogger(c Config, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	var out io.Writer
	switch c.LogFormat {
	case "console":
		out = zerolog.ConsoleWriter{Out: w}
	case "json":
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
