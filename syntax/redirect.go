package syntax

import "fmt"

// WriteMode selects between truncating and appending when a Redirect
// opens a file for writing. Merging redirects (>&2, 2>&1) carry no
// mode, since they never open a file.
type WriteMode int

const (
	Truncate WriteMode = iota
	Append
)

func (m WriteMode) String() string {
	if m == Append {
		return ">>"
	}
	return ">"
}

// RedirectKind tags which shape of redirection a Redirect describes.
type RedirectKind int

const (
	// InFile: "<path" or "0<path" — open path for read, dup2 onto fd 0.
	InFile RedirectKind = iota
	// OutToStderr: ">&2" — dup2 fd 2 onto fd 1.
	OutToStderr
	// OutFile: ">path" or ">>path" — open path for write, dup2 onto fd 1.
	OutFile
	// ErrToStdout: "2>&1" — dup2 fd 1 onto fd 2.
	ErrToStdout
	// ErrFile: "2>path" or "2>>path" — open path for write, dup2 onto fd 2.
	ErrFile
)

// Redirect is a single I/O redirection attached to a command. Path is
// only meaningful for the *File kinds; Mode is only meaningful for
// OutFile and ErrFile, since merging redirects have no mode.
type Redirect struct {
	Kind RedirectKind
	Path Word
	Mode WriteMode
}

func (r Redirect) String() string {
	switch r.Kind {
	case InFile:
		return "<" + r.Path.String()
	case OutToStderr:
		return ">&2"
	case OutFile:
		return r.Mode.String() + r.Path.String()
	case ErrToStdout:
		return "2>&1"
	case ErrFile:
		return "2" + r.Mode.String() + r.Path.String()
	default:
		return fmt.Sprintf("redirect(%d)", r.Kind)
	}
}
