// Package shell runs the interactive read loop: one command per line,
// dispatched to a single store, with results rendered as they come back.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/myuser/nestkv/internal/command"
	"github.com/myuser/nestkv/internal/metrics"
	"github.com/myuser/nestkv/internal/storage"
)

const Banner = "NESTKV KEY/VALUE STORE"

// Shell reads lines from an input, parses them with Parse and applies them
// to Store. Values go to Out, failures and parse errors to Err.
type Shell struct {
	Store  storage.Store
	Parse  func(line string) command.Command
	Prompt string
	Out    io.Writer
	Err    io.Writer
}

// New returns a shell using the line command syntax and the default prompt.
func New(store storage.Store, out, errw io.Writer) *Shell {
	return &Shell{
		Store:  store,
		Parse:  command.Parse,
		Prompt: "> ",
		Out:    out,
		Err:    errw,
	}
}

// Run reads in until a quit command or end of input. Errors returned are
// I/O errors only; store failures and bad input are printed and the loop
// carries on.
func (sh *Shell) Run(in io.Reader) error {
	fmt.Fprintln(sh.Out, Banner)
	sh.prompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd := sh.Parse(scanner.Text())
		switch cmd.Op {
		case command.OpQuit:
			fmt.Fprintln(sh.Out, "Exiting...")
			return nil
		case command.OpParseError:
			metrics.Inc("parse_errors")
			fmt.Fprintf(sh.Err, "ERROR: %s\n", cmd.Err)
		default:
			sh.render(Apply(sh.Store, cmd))
		}
		sh.prompt()
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	fmt.Fprintln(sh.Out, "Exiting...")
	return nil
}

func (sh *Shell) prompt() {
	fmt.Fprint(sh.Out, sh.Prompt)
}

func (sh *Shell) render(r storage.Result) {
	switch r.Kind {
	case storage.KindValue:
		fmt.Fprintln(sh.Out, r.Text)
	case storage.KindFailure:
		fmt.Fprintln(sh.Err, r.Text)
	}
}

// Apply runs one store command. Quit and ParseError are not store commands
// and come back as failures.
func Apply(s storage.Store, cmd command.Command) storage.Result {
	var r storage.Result
	switch cmd.Op {
	case command.OpRead:
		r = s.Read(cmd.Key)
	case command.OpWrite:
		r = s.Write(cmd.Key, cmd.Value)
	case command.OpDelete:
		r = s.Delete(cmd.Key)
	case command.OpStart:
		r = s.Start()
	case command.OpAbort:
		r = s.Abort()
	case command.OpCommit:
		r = s.Commit()
	case command.OpParseError:
		return storage.Failure(cmd.Err)
	default:
		return storage.Failuref("not a store command: %s", cmd.Op)
	}

	metrics.Inc("ops_" + strings.ToLower(cmd.Op.String()))
	if r.IsFailure() {
		metrics.Inc("failures")
	}
	return r
}
