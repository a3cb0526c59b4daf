package storage

import (
	"fmt"

	"github.com/BurntSushi/migration"
	"github.com/cznic/ql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// Dialect describes how one SQL engine spells the statements the savepoint
// store needs. Every statement takes the key as its first argument and the
// value, if any, as its second.
type Dialect struct {
	Name string

	selectValue string
	writeValue  string // insert or overwrite
	deleteKey   string

	// statements opening, rolling back and releasing the savepoint for depth
	savepoint  func(depth int) []string
	rollbackTo func(depth int) []string
	release    func(depth int) []string

	// open returns a session on an empty store table
	open func(dsn string) (session, error)
}

func savepointName(depth int) string {
	return fmt.Sprintf("tx_%d", depth)
}

// QL is the embedded QL engine, kept entirely in memory. QL has no named
// savepoints; its transactions nest instead, and ROLLBACK or COMMIT always
// apply to the innermost one, which is exactly tx_<depth>. QL refuses
// mutations outside a transaction, so each one carries its own.
var QL = &Dialect{
	Name:        "ql",
	selectValue: `SELECT value FROM store WHERE key == ?1`,
	writeValue: `
		BEGIN TRANSACTION;
			DELETE FROM store WHERE key == ?1;
			INSERT INTO store (key, value) VALUES (?1, ?2);
		COMMIT;`,
	deleteKey: `
		BEGIN TRANSACTION;
			DELETE FROM store WHERE key == ?1;
		COMMIT;`,

	savepoint:  func(int) []string { return []string{`BEGIN TRANSACTION;`} },
	rollbackTo: func(int) []string { return []string{`ROLLBACK;`} },
	release:    func(int) []string { return []string{`COMMIT;`} },

	open: openQL,
}

const qlStoreInit = `
	BEGIN TRANSACTION;
		CREATE TABLE IF NOT EXISTS store (
			key string,
			value string NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS storekey ON store (key);
	COMMIT;
`

// openQL makes a fresh in-memory database. The dsn is ignored; every call
// gets its own database so stores never share state.
func openQL(string) (session, error) {
	db, err := ql.OpenMem()
	if err != nil {
		return nil, err
	}
	s := &qlSession{db: db, ctx: ql.NewRWCtx()}
	if err := s.exec(qlStoreInit); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// MySQL keeps the table in a MySQL server given by a DSN. The first level
// is a real transaction since MySQL drops savepoints made while
// autocommitting; deeper levels are named savepoints.
var MySQL = &Dialect{
	Name:        "mysql",
	selectValue: "SELECT value FROM store WHERE `key` = ?",
	writeValue:  "INSERT INTO store (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
	deleteKey:   "DELETE FROM store WHERE `key` = ?",

	savepoint: func(depth int) []string {
		if depth == 1 {
			return []string{"START TRANSACTION"}
		}
		return []string{"SAVEPOINT " + savepointName(depth)}
	},
	rollbackTo: func(depth int) []string {
		if depth == 1 {
			return []string{"ROLLBACK"}
		}
		name := savepointName(depth)
		return []string{"ROLLBACK TO SAVEPOINT " + name, "RELEASE SAVEPOINT " + name}
	},
	release: func(depth int) []string {
		if depth == 1 {
			return []string{"COMMIT"}
		}
		return []string{"RELEASE SAVEPOINT " + savepointName(depth)}
	},

	open: openMySQL,
}

// List of migrations to perform. Add new ones to the end.
// DO NOT change the order of items already in this list.
var mysqlMigrations = []migration.Migrator{
	mysqlschema1,
}

var mysqlVersioning = dbVersion{
	GetSQL:    `SELECT max(version) FROM migration_version`,
	SetSQL:    `INSERT INTO migration_version (version, applied) VALUES (?, now())`,
	CreateSQL: `CREATE TABLE migration_version (version INTEGER, applied datetime)`,
}

// openMySQL connects and migrates the schema. The table is emptied since
// the store never outlives the process that opened it.
func openMySQL(dsn string) (session, error) {
	if dsn == "" {
		return nil, errors.New("mysql dialect needs a dsn")
	}
	db, err := migration.OpenWith(
		"mysql",
		dsn,
		mysqlMigrations,
		mysqlVersioning.Get,
		mysqlVersioning.Set)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := performExec(db, `TRUNCATE TABLE store`); err != nil {
		db.Close()
		return nil, err
	}
	return newSQLSession(db)
}

func mysqlschema1(tx migration.LimitedTx) error {
	var s = []string{
		"CREATE TABLE IF NOT EXISTS store (" +
			"`key` VARCHAR(255) NOT NULL PRIMARY KEY, " +
			"value TEXT NOT NULL)",
	}
	return execlist(tx, s)
}

// LookupDialect returns the dialect with the given name.
func LookupDialect(name string) (*Dialect, error) {
	switch name {
	case "", "ql":
		return QL, nil
	case "mysql":
		return MySQL, nil
	}
	return nil, errors.Errorf("unknown sql dialect %q", name)
}
