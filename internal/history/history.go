// Package history wires the REPL's line editor to a persistent
// history file, using github.com/chzyer/readline for both line
// editing and history management in place of the original
// implementation's GNU Readline bindings.
package history

import (
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

// NewInstance builds a readline.Instance configured with path as its
// history file, creating the containing directory if needed. path is
// created empty on first use if it doesn't already exist.
func NewInstance(prompt, path string) (*readline.Instance, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     path,
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return rl, nil
}
