package console

import (
	"io"
	"sync"

	"github.com/chzyer/readline"
)

// Prompter reads input from the user.
type Prompter interface {
	// ReadLine shows prompt with def pre-filled and returns the entered line.
	ReadLine(prompt, def string) (string, error)
	// ReadPassword reads a line without echoing it.
	ReadPassword(prompt string) (string, error)
}

// ReadlinePrompter is a Prompter over a terminal line editor.
type ReadlinePrompter struct {
	rl    *readline.Instance
	close sync.Once
	err   error
}

func completer() *readline.PrefixCompleter {
	sortDirs := []readline.PrefixCompleterInterface{readline.PcItem("asc"), readline.PcItem("desc")}
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("search"),
		readline.PcItem("status",
			readline.PcItem("all"),
			readline.PcItem("active"),
			readline.PcItem("inactive"),
		),
		readline.PcItem("page"),
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("size"),
		readline.PcItem("sort",
			readline.PcItem("id", sortDirs...),
			readline.PcItem("username", sortDirs...),
			readline.PcItem("status", sortDirs...),
			readline.PcItem("created_at", sortDirs...),
			readline.PcItem("off"),
		),
		readline.PcItem("new"),
		readline.PcItem("edit"),
		readline.PcItem("delete"),
		readline.PcItem("toggle"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// NewReadlinePrompter opens the terminal. historyFile may be blank.
func NewReadlinePrompter(historyFile string) (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		HistorySearchFold: true,
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
	})
	if err != nil {
		return nil, err
	}
	return &ReadlinePrompter{rl: rl}, nil
}

// ReadLine implements Prompter.
func (p *ReadlinePrompter) ReadLine(prompt, def string) (string, error) {
	p.rl.SetPrompt(prompt)
	if def != "" {
		return p.rl.ReadlineWithDefault(def)
	}
	return p.rl.Readline()
}

// ReadPassword implements Prompter.
func (p *ReadlinePrompter) ReadPassword(prompt string) (string, error) {
	b, err := p.rl.ReadPassword(prompt)
	return string(b), err
}

// Stdout returns a writer that redraws the prompt around output, so
// messages printed from other goroutines do not garble the input line.
func (p *ReadlinePrompter) Stdout() io.Writer {
	return p.rl.Stdout()
}

// Close restores the terminal. A read blocked in ReadLine returns
// io.EOF. Close may be called more than once.
func (p *ReadlinePrompter) Close() error {
	p.close.Do(func() { p.err = p.rl.Close() })
	return p.err
}

// ErrInterrupt is returned by a Prompter when the user presses Ctrl-C.
var ErrInterrupt = readline.ErrInterrupt
