package sql

import (
	"fmt"

	"github.com/myuser/nestkv/internal/command"
)

type NodeType int

const (
	NodePointGet NodeType = iota
	NodeInsert
	NodeDelete
	NodeTxn
	NodeQuit
)

// PlanNode is a parsed statement. Every node maps onto exactly one
// contract operation.
type PlanNode interface {
	Type() NodeType
	String() string
	Command() command.Command
}

type PointGetNode struct {
	Table string
	Key   []byte
}

func (n *PointGetNode) Type() NodeType           { return NodePointGet }
func (n *PointGetNode) String() string           { return fmt.Sprintf("PointGet(%s, %s)", n.Table, n.Key) }
func (n *PointGetNode) Command() command.Command { return command.Read(string(n.Key)) }

type InsertNode struct {
	Table   string
	Columns []string
	Key     []byte
	Value   []byte
}

func (n *InsertNode) Type() NodeType { return NodeInsert }
func (n *InsertNode) String() string { return fmt.Sprintf("Insert(%s, %s)", n.Table, n.Key) }
func (n *InsertNode) Command() command.Command {
	return command.Write(string(n.Key), string(n.Value))
}

type DeleteNode struct {
	Key []byte
}

func (n *DeleteNode) Type() NodeType           { return NodeDelete }
func (n *DeleteNode) String() string           { return fmt.Sprintf("Delete(%s)", n.Key) }
func (n *DeleteNode) Command() command.Command { return command.Delete(string(n.Key)) }

// TxnNode is BEGIN, COMMIT or ROLLBACK.
type TxnNode struct {
	Op command.Op
}

func (n *TxnNode) Type() NodeType           { return NodeTxn }
func (n *TxnNode) String() string           { return fmt.Sprintf("Txn(%s)", n.Op) }
func (n *TxnNode) Command() command.Command { return command.Command{Op: n.Op} }

type QuitNode struct{}

func (n *QuitNode) Type() NodeType           { return NodeQuit }
func (n *QuitNode) String() string           { return "Quit" }
func (n *QuitNode) Command() command.Command { return command.Quit() }
