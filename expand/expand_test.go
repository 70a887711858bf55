package expand

import (
	"os/user"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/justinmayhew/msh/syntax"
)

func newTestEnviron(vars map[string]string) *Environ {
	values := make(map[string]Variable, len(vars))
	for k, v := range vars {
		values[k] = Variable{Value: v, Exported: true}
	}
	return &Environ{values: values}
}

func w(value string, q syntax.Quote) syntax.Word {
	return syntax.Word{Value: []byte(value), Quote: q}
}

func TestWordSingleQuotedIsLiteral(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(map[string]string{"FOO": "bar"})
	got, err := Word(w("$FOO ~", syntax.SingleQuote), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "$FOO ~")
}

func TestWordDoubleQuotedExpandsVarsNotTilde(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(map[string]string{"FOO": "bar", "HOME": "/home/x"})
	got, err := Word(w("$FOO ~", syntax.DoubleQuote), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "bar ~")
}

func TestWordUnquotedExpandsTildeAndVars(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(map[string]string{"HOME": "/home/x", "DIR": "project"})
	got, err := Word(w("~/$DIR", syntax.NoQuote), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "/home/x/project")
}

func TestWordTildeOnlyLeadingByte(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(map[string]string{"HOME": "/home/x"})
	got, err := Word(w("a~b", syntax.NoQuote), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "a~b")
}

func TestWordTildeUser(t *testing.T) {
	c := qt.New(t)
	current, err := user.Current()
	if err != nil {
		t.Skip("no user lookup available")
	}
	env := newTestEnviron(nil)
	got, gotErr := Word(w("~"+current.Username+"/x", syntax.NoQuote), env)
	c.Assert(gotErr, qt.IsNil)
	c.Assert(got, qt.Equals, current.HomeDir+"/x")
}

func TestWordTildeUnknownUserIsLiteral(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(nil)
	got, err := Word(w("~nosuchuser000", syntax.NoQuote), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "~nosuchuser000")
}

func TestExpandVarsBraceForm(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(map[string]string{"FOO": "bar"})
	got, err := expandVars([]byte("x${FOO}y"), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "xbary")
}

func TestExpandVarsMissingBraceIsError(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(nil)
	_, err := expandVars([]byte("${FOO"), env)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestExpandVarsUnsetIsEmpty(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(nil)
	got, err := expandVars([]byte("[$MISSING]"), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "[]")
}

func TestExpandVarsTrailingDollarIsLiteral(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(nil)
	got, err := expandVars([]byte("abc$"), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "abc$")
}

func TestExpandVarsDollarNotFollowedByNameIsLiteral(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(nil)
	got, err := expandVars([]byte("a$ b"), env)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "a$ b")
}

func TestExpandVarsInvalidBraceName(t *testing.T) {
	c := qt.New(t)
	env := newTestEnviron(nil)
	_, err := expandVars([]byte("${1BAD}"), env)
	c.Assert(err, qt.Not(qt.IsNil))
}
