package interp

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/justinmayhew/msh/internal/shlog"
	"github.com/justinmayhew/msh/syntax"
)

// openFiles collects the *os.File handles opened while applying
// redirects to a command, so the parent can close its copies once the
// child has started (exec.Cmd never closes files assigned directly to
// Stdin/Stdout/Stderr).
type openFiles struct {
	files []*os.File
}

func (o *openFiles) add(f *os.File) *os.File {
	o.files = append(o.files, f)
	return f
}

func (o *openFiles) closeAll() {
	for _, f := range o.files {
		f.Close()
	}
}

// applyRedirects opens each redirect's target file (if any) and wires
// cmd's Stdin/Stdout/Stderr, applying them in order so that a later
// redirect overrides an earlier one — the same "last one wins" rule a
// sequence of dup2 calls gives the POSIX original.
func applyRedirects(cmd *exec.Cmd, redirects []ExpandedRedirect) (*openFiles, error) {
	open := &openFiles{}
	for _, r := range redirects {
		shlog.Redirect(redirectKindName(r.Kind), r.Path)
		switch r.Kind {
		case syntax.InFile:
			f, err := os.Open(r.Path)
			if err != nil {
				open.closeAll()
				return nil, fmt.Errorf("%s: %w", r.Path, err)
			}
			cmd.Stdin = open.add(f)

		case syntax.OutFile:
			f, err := openForWrite(r.Path, r.Mode)
			if err != nil {
				open.closeAll()
				return nil, fmt.Errorf("%s: %w", r.Path, err)
			}
			cmd.Stdout = open.add(f)

		case syntax.ErrFile:
			f, err := openForWrite(r.Path, r.Mode)
			if err != nil {
				open.closeAll()
				return nil, fmt.Errorf("%s: %w", r.Path, err)
			}
			cmd.Stderr = open.add(f)

		case syntax.OutToStderr:
			cmd.Stdout = cmd.Stderr

		case syntax.ErrToStdout:
			cmd.Stderr = cmd.Stdout
		}
	}
	return open, nil
}

func redirectKindName(k syntax.RedirectKind) string {
	switch k {
	case syntax.InFile:
		return "in"
	case syntax.OutFile:
		return "out"
	case syntax.ErrFile:
		return "err"
	case syntax.OutToStderr:
		return "out-to-stderr"
	case syntax.ErrToStdout:
		return "err-to-stdout"
	default:
		return "unknown"
	}
}

func openForWrite(path string, mode syntax.WriteMode) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if mode == syntax.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(path, flags, 0o644)
}
