package command

import (
	"fmt"
	"regexp"
	"strings"
)

// Tokens are separated by runs of non-word characters. A line splits into
// at most three parts so a written value keeps its internal spacing.
var splitter = regexp.MustCompile(`\W+`)

// Parse parses one line of input.
//
// Keywords are case-insensitive; keys and values are case-sensitive.
// Leading and trailing whitespace is ignored. Keys cannot contain
// non-word characters; values can.
func Parse(line string) Command {
	parts := splitter.Split(strings.TrimSpace(line), 3)
	keyword, args := parts[0], parts[1:]

	var cmd Command
	used := 0
	switch strings.ToLower(keyword) {
	case "read":
		if arg(args, 0) == "" {
			return ParseError("READ must supply key")
		}
		cmd, used = Read(args[0]), 1
	case "write":
		if arg(args, 0) == "" || arg(args, 1) == "" {
			return ParseError("WRITE must supply key and value")
		}
		cmd, used = Write(args[0], args[1]), 2
	case "delete":
		if arg(args, 0) == "" {
			return ParseError("DELETE must supply key")
		}
		cmd, used = Delete(args[0]), 1
	case "start":
		cmd = Start()
	case "abort":
		cmd = Abort()
	case "commit":
		cmd = Commit()
	case "quit":
		cmd = Quit()
	case "":
		return ParseError("Must supply command")
	default:
		return ParseError(fmt.Sprintf("Invalid Command <%s>", keyword))
	}

	// no other tokens should remain at this point
	if len(args) > used {
		return ParseError("Unexpected input after command")
	}
	return cmd
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
