package storage

import (
	"io"
	"log"

	"github.com/pkg/errors"
)

// SavepointStore keeps the data in a SQL table and implements transactions
// with the engine's savepoints instead of in-memory snapshots. depth counts
// the savepoints currently open; the savepoint for level n is tx_<n>.
//
// Isolation and rollback come entirely from the engine. Reads, writes and
// deletes are single statements no matter how deep the nesting is.
//
// The store owns a single session for its lifetime, since savepoints belong
// to a connection.
type SavepointStore struct {
	sess    session
	dialect *Dialect
	depth   int
	log     *log.Logger
}

var _ Store = &SavepointStore{}

// NewSavepointStore opens a store on the given dialect. The dsn is passed to
// the dialect; the embedded QL dialect ignores it.
func NewSavepointStore(d *Dialect, dsn string) (*SavepointStore, error) {
	sess, err := d.open(dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", d.Name)
	}
	return &SavepointStore{
		sess:    sess,
		dialect: d,
		log:     log.New(io.Discard, "", 0),
	}, nil
}

// NewQLStore returns a savepoint store on a fresh in-memory QL database.
func NewQLStore() (*SavepointStore, error) {
	return NewSavepointStore(QL, "")
}

// SetLogger sets where the executed transaction statements are traced.
func (s *SavepointStore) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	s.log = l
}

// Depth returns the number of open savepoints.
func (s *SavepointStore) Depth() int {
	return s.depth
}

func (s *SavepointStore) Read(key string) Result {
	v, ok, err := s.sess.queryValue(s.dialect.selectValue, key)
	if err != nil {
		return Failure(err.Error())
	}
	if !ok {
		return notFound(key)
	}
	return Value(v)
}

func (s *SavepointStore) Write(key, value string) Result {
	if err := s.sess.exec(s.dialect.writeValue, key, value); err != nil {
		return Failure(err.Error())
	}
	return Success()
}

func (s *SavepointStore) Delete(key string) Result {
	if err := s.sess.exec(s.dialect.deleteKey, key); err != nil {
		return Failure(err.Error())
	}
	return Success()
}

// Start opens the savepoint for the next level. depth only moves once the
// engine has accepted the savepoint.
func (s *SavepointStore) Start() Result {
	next := s.depth + 1
	if err := s.exec(next, s.dialect.savepoint(next)); err != nil {
		return Failure(err.Error())
	}
	s.depth = next
	return Success()
}

// Abort rolls back to the current level's savepoint and discards it.
func (s *SavepointStore) Abort() Result {
	if s.depth == 0 {
		return Failure(msgNoAbort)
	}
	if err := s.exec(s.depth, s.dialect.rollbackTo(s.depth)); err != nil {
		return Failure(err.Error())
	}
	s.depth--
	return Success()
}

// Commit releases the current level's savepoint into its parent.
func (s *SavepointStore) Commit() Result {
	if s.depth == 0 {
		return Failure(msgNoCommit)
	}
	if err := s.exec(s.depth, s.dialect.release(s.depth)); err != nil {
		return Failure(err.Error())
	}
	s.depth--
	return Success()
}

// Close rolls back any open levels and releases the session.
func (s *SavepointStore) Close() error {
	for s.depth > 0 {
		if r := s.Abort(); r.IsFailure() {
			s.log.Printf("%s: close: %s", s.dialect.Name, r.Text)
			break
		}
	}
	return s.sess.close()
}

func (s *SavepointStore) exec(depth int, stmts []string) error {
	for _, q := range stmts {
		s.log.Printf("%s %s: %s", s.dialect.Name, savepointName(depth), q)
		if err := s.sess.exec(q); err != nil {
			return err
		}
	}
	return nil
}
