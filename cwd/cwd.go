// Package cwd tracks the shell's current and previous working
// directory and implements cd semantics.
package cwd

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir remembers the current absolute directory and, once a cd has
// happened, the previous one too.
type Dir struct {
	current string
	last    string // empty until the first successful Cd
	hasLast bool
}

// New builds a Dir seeded from the process's actual working directory.
func New() (*Dir, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cwd: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(wd)
	if err != nil {
		resolved = wd
	}
	return &Dir{current: resolved}, nil
}

// Current returns the current absolute directory.
func (d *Dir) Current() string { return d.current }

// Cd implements the cd built-in's argument resolution and directory
// change. args must have length 0 or 1; more than one argument is
// rejected with a "too many arguments" error and no directory change.
func (d *Dir) Cd(args []string, home string) error {
	var target string
	switch len(args) {
	case 0:
		if home == "" {
			return fmt.Errorf("cd: HOME not set")
		}
		target = home
	case 1:
		if args[0] == "-" {
			if d.hasLast {
				target = d.last
			} else {
				target = d.current
			}
		} else {
			target = args[0]
		}
	default:
		return fmt.Errorf("cd: too many arguments")
	}

	if err := os.Chdir(target); err != nil {
		return fmt.Errorf("cd: %w", err)
	}

	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(d.current, target)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		resolved = abs
	}

	d.last, d.hasLast = d.current, true
	d.current = resolved
	return nil
}
