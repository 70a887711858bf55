package expand

import (
	"bytes"
	"fmt"
	"os/user"

	"github.com/justinmayhew/msh/syntax"
)

// Error is returned when a word's $NAME/${NAME} expansion is malformed:
// a missing closing brace, or an invalid variable name.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Word expands w against env according to its quote tag:
//
//   - single-quoted: returned verbatim.
//   - double-quoted: variable expansion only, tilde expansion is off.
//   - unquoted: tilde expansion, then variable expansion.
func Word(w syntax.Word, env *Environ) (string, error) {
	switch w.Quote {
	case syntax.SingleQuote:
		return string(w.Value), nil
	case syntax.DoubleQuote:
		return expandVars(w.Value, env)
	default:
		tilded := expandTilde(w.Value, env)
		return expandVars(tilded, env)
	}
}

// expandTilde applies the leading-~ expansion described in spec.md
// §4.3. A '~' not at byte 0 is always literal, and a lookup failure
// (no such user) leaves the word unchanged.
func expandTilde(b []byte, env *Environ) []byte {
	if len(b) == 0 || b[0] != '~' {
		return b
	}
	rest := b[1:]

	if len(rest) == 0 {
		return []byte(env.Get("HOME"))
	}
	if rest[0] == '/' {
		return append([]byte(env.Get("HOME")), rest...)
	}

	name := rest
	tail := []byte(nil)
	if i := bytes.IndexByte(rest, '/'); i >= 0 {
		name = rest[:i]
		tail = rest[i:]
	}

	u, err := user.Lookup(string(name))
	if err != nil {
		return b
	}
	return append([]byte(u.HomeDir), tail...)
}

// expandVars scans b for $NAME / ${NAME} references and substitutes
// their current value from env. An unset variable expands to the empty
// string. A trailing '$' with nothing following is literal.
func expandVars(b []byte, env *Environ) (string, error) {
	var out bytes.Buffer
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c != '$' {
			out.WriteByte(c)
			continue
		}
		if i == len(b)-1 {
			out.WriteByte('$')
			break
		}
		next := b[i+1]
		if next == '{' {
			end := bytes.IndexByte(b[i+2:], '}')
			if end < 0 {
				return "", &Error{Msg: "missing closing brace in variable reference"}
			}
			name := b[i+2 : i+2+end]
			if !syntax.ValidName(name) {
				return "", &Error{Msg: fmt.Sprintf("invalid variable name %q", name)}
			}
			out.WriteString(env.Get(string(name)))
			i += 2 + end // position of '}'; loop's i++ moves past it
			continue
		}

		j := i + 1
		for j < len(b) && isNameByte(b[j], j == i+1) {
			j++
		}
		if j == i+1 {
			// '$' followed by a byte that can't start a name: literal.
			out.WriteByte('$')
			continue
		}
		name := b[i+1 : j]
		out.WriteString(env.Get(string(name)))
		i = j - 1
	}
	return out.String(), nil
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}
