package interp

import (
	"bytes"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/justinmayhew/msh/cwd"
	"github.com/justinmayhew/msh/expand"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	dir, err := cwd.New()
	if err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	r := &Runner{Env: expand.NewEnviron(), Dir: dir}
	return r, &stdout, &stderr
}

func TestBuiltinExitNoArgs(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(t)
	status, err := r.builtinExit(nil)
	c.Assert(status, qt.Equals, Success)
	code, ok := ExitRequested(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(code, qt.Equals, 0)
}

func TestBuiltinExitNumeric(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(t)
	status, err := r.builtinExit([]string{"7"})
	c.Assert(status, qt.Equals, Failure)
	code, ok := ExitRequested(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(code, qt.Equals, 7)
}

func TestBuiltinExitBadNumeric(t *testing.T) {
	c := qt.New(t)
	r, _, stderr := newTestRunner(t)
	r.Stderr = mustPipeWriter(t, stderr)
	status, err := r.builtinExit([]string{"nope"})
	c.Assert(status, qt.Equals, Failure)
	code, ok := ExitRequested(err)
	c.Assert(ok, qt.IsTrue)
	c.Assert(code, qt.Equals, 2)
}

func TestBuiltinCdNoArgsRequiresHome(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(t)
	r.Env.Assign("HOME", "")
	status, _ := r.builtinCd(nil)
	c.Assert(status, qt.Equals, Failure)
}

func TestBuiltinCdTooManyArgs(t *testing.T) {
	c := qt.New(t)
	r, _, _ := newTestRunner(t)
	status, _ := r.builtinCd([]string{"a", "b"})
	c.Assert(status, qt.Equals, Failure)
}

func TestIsBuiltin(t *testing.T) {
	c := qt.New(t)
	c.Assert(isBuiltin("cd"), qt.IsTrue)
	c.Assert(isBuiltin("exit"), qt.IsTrue)
	c.Assert(isBuiltin("echo"), qt.IsFalse)
}

// mustPipeWriter returns a *os.File whose writes are observable via an
// in-memory buffer, for tests that only care about diagnostic text and
// not about genuine file descriptor semantics.
func mustPipeWriter(t *testing.T, buf *bytes.Buffer) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()
	t.Cleanup(func() {
		w.Close()
		<-done
	})
	return w
}
