// Package sql accepts a small SQL dialect as an alternative shell syntax.
// Statements are turned into plan nodes, and every node into one Command.
//
//	SELECT v FROM kv WHERE k = 'foo'          -> Read(foo)
//	INSERT INTO kv (k, v) VALUES ('foo', 'x') -> Write(foo, x)
//	DELETE FROM kv WHERE k = 'foo'            -> Delete(foo)
//	BEGIN, COMMIT, ROLLBACK                   -> Start, Commit, Abort
//
// Table and column names are not interpreted.
package sql

import (
	"fmt"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"

	"github.com/myuser/nestkv/internal/command"
)

// Parse turns one line into a Command. Anything the SQL front end does not
// understand becomes a ParseError.
func Parse(line string) command.Command {
	plan, err := ParseToPlan(line)
	if err != nil {
		return command.ParseError(err.Error())
	}
	return plan.Command()
}

// ParseToPlan parses a SQL string and returns a logical plan.
func ParseToPlan(sql string) (PlanNode, error) {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSpace(strings.TrimSuffix(sql, ";"))
	if sql == "" {
		return nil, fmt.Errorf("Must supply statement")
	}

	// Transaction verbs are handled before the SQL parser sees them.
	switch strings.Join(strings.Fields(strings.ToUpper(sql)), " ") {
	case "BEGIN", "BEGIN TRANSACTION", "START TRANSACTION":
		return &TxnNode{Op: command.OpStart}, nil
	case "COMMIT":
		return &TxnNode{Op: command.OpCommit}, nil
	case "ROLLBACK":
		return &TxnNode{Op: command.OpAbort}, nil
	case "QUIT", "EXIT":
		return &QuitNode{}, nil
	}

	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, err
	}

	switch s := stmt.(type) {
	case *sqlparser.Select:
		return buildSelectPlan(s)
	case *sqlparser.Insert:
		return buildInsertPlan(s)
	case *sqlparser.Delete:
		return buildDeletePlan(s)
	default:
		return nil, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

func buildSelectPlan(stmt *sqlparser.Select) (PlanNode, error) {
	if len(stmt.From) == 0 {
		return nil, fmt.Errorf("SELECT without FROM is not supported")
	}
	aliasedTable, ok := stmt.From[0].(*sqlparser.AliasedTableExpr)
	if !ok || len(stmt.From) > 1 {
		return nil, fmt.Errorf("complex FROM clauses not supported")
	}
	table := sqlparser.String(aliasedTable.Expr)

	key, err := pointKey(stmt.Where)
	if err != nil {
		return nil, fmt.Errorf("SELECT: %v", err)
	}
	return &PointGetNode{Table: table, Key: key}, nil
}

func buildInsertPlan(stmt *sqlparser.Insert) (PlanNode, error) {
	table := sqlparser.String(stmt.Table)

	var cols []string
	for _, col := range stmt.Columns {
		cols = append(cols, col.String())
	}

	rows, ok := stmt.Rows.(sqlparser.Values)
	if !ok {
		return nil, fmt.Errorf("INSERT from SELECT not supported")
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("INSERT must supply exactly one row")
	}
	row := rows[0]
	if len(row) != 2 {
		return nil, fmt.Errorf("INSERT must supply key and value")
	}

	var values [][]byte
	for _, val := range row {
		switch v := val.(type) {
		case *sqlparser.SQLVal:
			values = append(values, v.Val)
		default:
			values = append(values, []byte(sqlparser.String(val)))
		}
	}

	return &InsertNode{
		Table:   table,
		Columns: cols,
		Key:     values[0],
		Value:   values[1],
	}, nil
}

func buildDeletePlan(stmt *sqlparser.Delete) (PlanNode, error) {
	key, err := pointKey(stmt.Where)
	if err != nil {
		return nil, fmt.Errorf("DELETE: %v", err)
	}
	return &DeleteNode{Key: key}, nil
}

// pointKey extracts the literal from a WHERE clause of the form col = 'literal'.
func pointKey(where *sqlparser.Where) ([]byte, error) {
	if where == nil {
		return nil, fmt.Errorf("WHERE <column> = <key> required")
	}
	cmp, ok := where.Expr.(*sqlparser.ComparisonExpr)
	if !ok || cmp.Operator != sqlparser.EqualStr {
		return nil, fmt.Errorf("only point lookups are supported")
	}
	if _, ok := cmp.Left.(*sqlparser.ColName); !ok {
		return nil, fmt.Errorf("only point lookups are supported")
	}
	val, ok := cmp.Right.(*sqlparser.SQLVal)
	if !ok {
		return nil, fmt.Errorf("key must be a literal")
	}
	return val.Val, nil
}
