package interp

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/justinmayhew/msh/syntax"
)

func TestApplyRedirectsOutFileTruncate(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	c.Assert(os.WriteFile(path, []byte("old"), 0o644), qt.IsNil)

	cmd := &exec.Cmd{}
	open, err := applyRedirects(cmd, []ExpandedRedirect{{Kind: syntax.OutFile, Path: path, Mode: syntax.Truncate}})
	c.Assert(err, qt.IsNil)
	defer open.closeAll()

	c.Assert(cmd.Stdout, qt.Not(qt.IsNil))
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "")
}

func TestApplyRedirectsOutFileAppend(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	c.Assert(os.WriteFile(path, []byte("old"), 0o644), qt.IsNil)

	cmd := &exec.Cmd{}
	open, err := applyRedirects(cmd, []ExpandedRedirect{{Kind: syntax.OutFile, Path: path, Mode: syntax.Append}})
	c.Assert(err, qt.IsNil)
	defer open.closeAll()

	f := cmd.Stdout.(*os.File)
	_, err = f.WriteString("new")
	c.Assert(err, qt.IsNil)

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "oldnew")
}

func TestApplyRedirectsInFileMissingIsError(t *testing.T) {
	c := qt.New(t)
	cmd := &exec.Cmd{}
	_, err := applyRedirects(cmd, []ExpandedRedirect{{Kind: syntax.InFile, Path: "/does/not/exist"}})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestApplyRedirectsLastOneWins(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")

	cmd := &exec.Cmd{}
	open, err := applyRedirects(cmd, []ExpandedRedirect{
		{Kind: syntax.OutFile, Path: first},
		{Kind: syntax.OutFile, Path: second},
	})
	c.Assert(err, qt.IsNil)
	defer open.closeAll()

	f := cmd.Stdout.(*os.File)
	c.Assert(filepath.Base(f.Name()), qt.Equals, "second.txt")
}

func TestApplyRedirectsStreamReferences(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	errPath := filepath.Join(dir, "err.txt")

	cmd := &exec.Cmd{}
	open, err := applyRedirects(cmd, []ExpandedRedirect{
		{Kind: syntax.ErrFile, Path: errPath},
		{Kind: syntax.OutToStderr},
	})
	c.Assert(err, qt.IsNil)
	defer open.closeAll()
	c.Assert(cmd.Stdout, qt.Equals, cmd.Stderr)
}
