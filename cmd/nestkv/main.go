package main

import (
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/myuser/nestkv/internal/config"
	"github.com/myuser/nestkv/internal/metrics"
	"github.com/myuser/nestkv/internal/shell"
	"github.com/myuser/nestkv/internal/sql"
	"github.com/myuser/nestkv/internal/storage"
)

// Flags left empty keep the value from the config file (or its default).
type CLI struct {
	Config  string `short:"c" type:"existingfile" help:"TOML config file."`
	Backend string `short:"b" help:"Storage backend: snapshot, savepoint, flat or echo."`
	Syntax  string `short:"s" help:"Input syntax: command or sql."`
	Dialect string `help:"SQL engine for the savepoint backend: ql or mysql."`
	DSN     string `help:"MySQL DSN for the savepoint backend."`
	Verbose bool   `short:"v" help:"Trace savepoint statements to stderr."`
	Stats   bool   `help:"Print operation counters on exit."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("nestkv"),
		kong.Description("Interactive key/value store with nested transactions."),
		kong.UsageOnError())

	cfg, err := loadConfig(cli)
	if err != nil {
		log.Fatalf("nestkv: %v", err)
	}

	opts := cfg.StorageOptions()
	if cfg.Verbose {
		opts.Logger = log.New(os.Stderr, "nestkv: ", log.LstdFlags)
	}
	store, err := storage.Open(opts)
	if err != nil {
		log.Fatalf("nestkv: %v", err)
	}

	sh := shell.New(store, os.Stdout, os.Stderr)
	sh.Prompt = cfg.Prompt
	if cfg.Syntax == config.SyntaxSQL {
		sh.Parse = sql.Parse
	}
	runErr := sh.Run(os.Stdin)

	if c, ok := store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("nestkv: close: %v", err)
		}
	}
	if cli.Stats {
		printStats(os.Stderr)
	}
	if runErr != nil {
		log.Fatalf("nestkv: %v", runErr)
	}
}

func printStats(w io.Writer) {
	if err := metrics.WriteTo(w); err != nil {
		log.Printf("nestkv: stats: %v", err)
	}
}

func loadConfig(cli CLI) (config.Config, error) {
	cfg := config.Default()
	if cli.Config != "" {
		var err error
		if cfg, err = config.Load(cli.Config); err != nil {
			return cfg, err
		}
	}
	if cli.Backend != "" {
		cfg.Backend = cli.Backend
	}
	if cli.Syntax != "" {
		cfg.Syntax = cli.Syntax
	}
	if cli.Dialect != "" {
		cfg.SQL.Dialect = cli.Dialect
	}
	if cli.DSN != "" {
		cfg.SQL.DSN = cli.DSN
	}
	if cli.Verbose {
		cfg.Verbose = true
	}
	return cfg, cfg.Validate()
}
