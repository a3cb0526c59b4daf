package storage

import (
	"context"
	"database/sql"

	"github.com/cznic/ql"
)

// session is one connection to an engine. Savepoints belong to a session,
// so a store holds exactly one for its lifetime.
type session interface {
	// queryValue runs a single-column lookup. ok is false when no row
	// matched.
	queryValue(q string, args ...interface{}) (v string, ok bool, err error)
	exec(q string, args ...interface{}) error
	close() error
}

// sqlSession pins one database/sql connection.
type sqlSession struct {
	db   *sql.DB
	conn *sql.Conn
}

func newSQLSession(db *sql.DB) (*sqlSession, error) {
	conn, err := db.Conn(context.Background())
	if err != nil {
		db.Close()
		return nil, err
	}
	return &sqlSession{db: db, conn: conn}, nil
}

func (s *sqlSession) queryValue(q string, args ...interface{}) (string, bool, error) {
	var v string
	err := s.conn.QueryRowContext(context.Background(), q, args...).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *sqlSession) exec(q string, args ...interface{}) error {
	_, err := s.conn.ExecContext(context.Background(), q, args...)
	return err
}

func (s *sqlSession) close() error {
	err := s.conn.Close()
	if err2 := s.db.Close(); err == nil {
		err = err2
	}
	return err
}

// qlSession drives an embedded QL database through its native API. QL only
// accepts BEGIN TRANSACTION from a caller holding a transaction context, and
// nested BEGINs must come from that same context, so the session owns one.
type qlSession struct {
	db  *ql.DB
	ctx *ql.TCtx
}

func (s *qlSession) queryValue(q string, args ...interface{}) (string, bool, error) {
	rs, _, err := s.db.Run(s.ctx, q, args...)
	if err != nil {
		return "", false, err
	}
	if len(rs) == 0 {
		return "", false, nil
	}
	row, err := rs[0].FirstRow()
	if err != nil {
		return "", false, err
	}
	if row == nil {
		return "", false, nil
	}
	v, _ := row[0].(string)
	return v, true, nil
}

// exec runs a statement list. If any statement fails QL rolls back to the
// nesting level that was open before the list started.
func (s *qlSession) exec(q string, args ...interface{}) error {
	_, _, err := s.db.Run(s.ctx, q, args...)
	return err
}

func (s *qlSession) close() error {
	return s.db.Close()
}
