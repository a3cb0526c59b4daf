package storage

import (
	"log"
	"strings"

	"github.com/pkg/errors"
)

// Options selects and configures a backend.
type Options struct {
	Backend string // snapshot, savepoint, flat or echo
	Dialect string // savepoint only: ql or mysql
	DSN     string // savepoint only: passed to the dialect
	Logger  *log.Logger
}

// Backend names accepted by Open. Aliases map to the same backend.
const (
	BackendSnapshot  = "snapshot"
	BackendSavepoint = "savepoint"
	BackendFlat      = "flat"
	BackendEcho      = "echo"
)

var backendAliases = map[string]string{
	"":          BackendSnapshot,
	"copy":      BackendSnapshot,
	"sql":       BackendSavepoint,
	"simple":    BackendFlat,
	"dummy":     BackendEcho,
	"snapshot":  BackendSnapshot,
	"savepoint": BackendSavepoint,
	"flat":      BackendFlat,
	"echo":      BackendEcho,
}

// CanonicalBackend resolves aliases. It returns "" for unknown names.
func CanonicalBackend(name string) string {
	return backendAliases[strings.ToLower(name)]
}

// Open builds the backend named by opts.Backend. The caller owns the
// returned store; savepoint stores also implement io.Closer.
func Open(opts Options) (Store, error) {
	switch CanonicalBackend(opts.Backend) {
	case BackendSnapshot:
		return NewSnapshotStore(), nil
	case BackendFlat:
		return NewFlatStore(), nil
	case BackendEcho:
		return EchoStore{}, nil
	case BackendSavepoint:
		d, err := LookupDialect(opts.Dialect)
		if err != nil {
			return nil, err
		}
		s, err := NewSavepointStore(d, opts.DSN)
		if err != nil {
			return nil, err
		}
		s.SetLogger(opts.Logger)
		return s, nil
	}
	return nil, errors.Errorf("unknown backend %q", opts.Backend)
}
