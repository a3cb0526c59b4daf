// Package command turns one line of shell input into a typed Command.
package command

import "fmt"

type Op int

const (
	OpRead Op = iota
	OpWrite
	OpDelete
	OpStart
	OpAbort
	OpCommit
	OpQuit
	OpParseError
)

var opNames = [...]string{
	OpRead:       "Read",
	OpWrite:      "Write",
	OpDelete:     "Delete",
	OpStart:      "Start",
	OpAbort:      "Abort",
	OpCommit:     "Commit",
	OpQuit:       "Quit",
	OpParseError: "ParseError",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Command is one parsed line. Key is set for Read, Write and Delete, Value
// for Write, and Err for ParseError. Commands are comparable with ==.
type Command struct {
	Op    Op
	Key   string
	Value string
	Err   string
}

func Read(key string) Command         { return Command{Op: OpRead, Key: key} }
func Write(key, value string) Command { return Command{Op: OpWrite, Key: key, Value: value} }
func Delete(key string) Command       { return Command{Op: OpDelete, Key: key} }
func Start() Command                  { return Command{Op: OpStart} }
func Abort() Command                  { return Command{Op: OpAbort} }
func Commit() Command                 { return Command{Op: OpCommit} }
func Quit() Command                   { return Command{Op: OpQuit} }

// ParseError reports input that never reaches the store.
func ParseError(msg string) Command { return Command{Op: OpParseError, Err: msg} }

func (c Command) String() string {
	switch c.Op {
	case OpRead, OpDelete:
		return fmt.Sprintf("%s(%s)", c.Op, c.Key)
	case OpWrite:
		return fmt.Sprintf("%s(%s, %s)", c.Op, c.Key, c.Value)
	case OpParseError:
		return fmt.Sprintf("%s(%s)", c.Op, c.Err)
	}
	return c.Op.String()
}
