// Package config loads nestkv settings from a TOML file.
//
// A complete file looks like
//
//	backend = "savepoint"   # snapshot, savepoint, flat or echo
//	syntax  = "command"     # command or sql
//	prompt  = "> "
//	verbose = false
//
//	[sql]
//	dialect = "ql"          # ql or mysql
//	dsn     = ""            # mysql only
//
// Missing keys keep their defaults.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/myuser/nestkv/internal/storage"
)

const (
	SyntaxCommand = "command"
	SyntaxSQL     = "sql"
)

type Config struct {
	Backend string    `toml:"backend"`
	Syntax  string    `toml:"syntax"`
	Prompt  string    `toml:"prompt"`
	Verbose bool      `toml:"verbose"`
	SQL     SQLConfig `toml:"sql"`
}

type SQLConfig struct {
	Dialect string `toml:"dialect"`
	DSN     string `toml:"dsn"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Backend: storage.BackendSnapshot,
		Syntax:  SyntaxCommand,
		Prompt:  "> ",
		SQL:     SQLConfig{Dialect: "ql"},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return c, errors.Wrapf(err, "config %s", path)
	}
	return c, c.Validate()
}

// Decode reads TOML text over the defaults.
func Decode(data string) (Config, error) {
	c := Default()
	if _, err := toml.Decode(data, &c); err != nil {
		return c, errors.Wrap(err, "config")
	}
	return c, c.Validate()
}

// Validate rejects unknown backend, syntax and dialect names.
func (c Config) Validate() error {
	if storage.CanonicalBackend(c.Backend) == "" {
		return errors.Errorf("config: unknown backend %q", c.Backend)
	}
	switch c.Syntax {
	case "", SyntaxCommand, SyntaxSQL:
	default:
		return errors.Errorf("config: unknown syntax %q", c.Syntax)
	}
	if _, err := storage.LookupDialect(c.SQL.Dialect); err != nil {
		return errors.Wrap(err, "config")
	}
	return nil
}

// StorageOptions converts the settings into backend options.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Backend,
		Dialect: c.SQL.Dialect,
		DSN:     c.SQL.DSN,
	}
}
