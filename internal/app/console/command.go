package console

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one parsed input line.
type Command struct {
	Name string
	Args []string
}

// splitArgs splits on spaces, keeping double-quoted runs together.
func splitArgs(input string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		hasArg  bool
	)
	for _, r := range input {
		switch {
		case r == '"':
			quoted = !quoted
			hasArg = true
		case (r == ' ' || r == '\t') && !quoted:
			if hasArg {
				args = append(args, current.String())
				current.Reset()
				hasArg = false
			}
		default:
			current.WriteRune(r)
			hasArg = true
		}
	}
	if hasArg {
		args = append(args, current.String())
	}
	return args
}

var aliases = map[string]string{
	"ls":   "list",
	"exit": "quit",
	"q":    "quit",
	"?":    "help",
	"rm":   "delete",
	"add":  "new",
}

// arity is the accepted argument count range per command; -1 means unbounded.
var arity = map[string][2]int{
	"list":   {0, 0},
	"search": {0, -1},
	"status": {1, 1},
	"page":   {1, 1},
	"next":   {0, 0},
	"prev":   {0, 0},
	"size":   {1, 1},
	"sort":   {1, 2},
	"new":    {0, 0},
	"edit":   {1, 1},
	"delete": {1, 1},
	"toggle": {1, 1},
	"help":   {0, 0},
	"quit":   {0, 0},
}

// ParseCommand parses a line. A blank line yields a Command with an empty Name.
func ParseCommand(line string) (Command, error) {
	args := splitArgs(strings.TrimSpace(line))
	if len(args) == 0 {
		return Command{}, nil
	}

	name := strings.ToLower(args[0])
	if a, ok := aliases[name]; ok {
		name = a
	}
	bounds, ok := arity[name]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q (type help)", args[0])
	}

	rest := args[1:]
	if len(rest) < bounds[0] || (bounds[1] >= 0 && len(rest) > bounds[1]) {
		return Command{}, fmt.Errorf("usage: %s", usage[name])
	}
	return Command{Name: name, Args: rest}, nil
}

// intArg parses args[i] as a positive integer.
func (c Command) intArg(i int, what string) (int64, error) {
	n, err := strconv.ParseInt(c.Args[i], 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", what, c.Args[i])
	}
	return n, nil
}

var usage = map[string]string{
	"list":   "list",
	"search": "search [text]",
	"status": "status all|active|inactive",
	"page":   "page <n>",
	"next":   "next",
	"prev":   "prev",
	"size":   "size <n>",
	"sort":   "sort <id|username|status|created_at> [asc|desc]  |  sort off",
	"new":    "new",
	"edit":   "edit <id>",
	"delete": "delete <id>",
	"toggle": "toggle <id>",
	"help":   "help",
	"quit":   "quit",
}

// helpOrder lists commands in the order help prints them.
var helpOrder = []string{
	"list", "search", "status", "page", "next", "prev", "size", "sort",
	"new", "edit", "delete", "toggle", "help", "quit",
}
