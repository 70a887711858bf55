package syntax

import "fmt"

// LexError is returned by Lexer.Next when the byte stream cannot be
// tokenized: an unterminated quote or an illegal redirection target.
type LexError struct {
	Pos Pos
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Lexer turns a byte slice into a stream of Tokens. It is a single-pass
// scanner: Next is called repeatedly until it returns a Token with Kind
// EOF (or an error). The lexer needs exactly one byte of lookahead,
// which it gets for free by indexing into src rather than keeping an
// explicit pushback slot.
type Lexer struct {
	src  []byte
	pos  int
	line int

	pending    *Token
	lastKind   TokenKind
	emittedAny bool
	eofHandled bool
}

// NewLexer returns a Lexer over src.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, line: 1}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

// wordBreak reports whether b always ends an unquoted word, even
// without intervening whitespace.
func wordBreak(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', ';', '{', '}', '|', '<', '>':
		return true
	}
	return false
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

// Next returns the next token. At end of input it returns a Token with
// Kind EOF and a nil error.
func (l *Lexer) Next() (Token, error) {
	if l.pending != nil {
		t := *l.pending
		l.pending = nil
		l.lastKind = t.Kind
		return t, nil
	}
	if l.eofHandled {
		return Token{Kind: EOF}, nil
	}

	for {
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}
		if l.pos >= len(l.src) {
			break
		}
		b := l.src[l.pos]
		if b != '\n' && b != ';' {
			break
		}

		termLine := l.line
		for l.pos < len(l.src) {
			switch l.src[l.pos] {
			case '\n':
				l.pos++
				l.line++
			case ';':
				l.pos++
			case ' ', '\t', '\r':
				l.pos++
			default:
				goto scanned
			}
		}
	scanned:
		if !l.emittedAny {
			// Leading terminators before any emitted token are suppressed.
			continue
		}
		if l.lastKind == Semi {
			// Consecutive terminators coalesce into the one already emitted.
			continue
		}
		l.lastKind = Semi
		return Token{Kind: Semi, Pos: Pos(termLine)}, nil
	}

	if l.pos >= len(l.src) {
		l.eofHandled = true
		if l.emittedAny && l.lastKind != Semi {
			l.lastKind = Semi
			return Token{Kind: Semi, Pos: Pos(l.line)}, nil
		}
		return Token{Kind: EOF}, nil
	}

	startLine := l.line
	b := l.src[l.pos]

	switch {
	case b == '{':
		// Trailing line-terminators after '{' are handled by the usual
		// terminator-coalescing loop above on the next call: they fold
		// into a single Semi, which the parser treats as an empty
		// statement list rather than a real one.
		l.pos++
		l.emittedAny = true
		l.lastKind = LBrace
		return Token{Kind: LBrace, Pos: Pos(startLine)}, nil

	case b == '}':
		l.pos++
		if l.lastKind != LBrace && l.lastKind != Semi {
			l.pending = &Token{Kind: RBrace, Pos: Pos(startLine)}
			l.lastKind = Semi
			return Token{Kind: Semi, Pos: Pos(startLine)}, nil
		}
		l.emittedAny = true
		l.lastKind = RBrace
		return Token{Kind: RBrace, Pos: Pos(startLine)}, nil

	case b == '|':
		l.pos++
		l.emittedAny = true
		l.lastKind = Pipe
		return Token{Kind: Pipe, Pos: Pos(startLine)}, nil

	case b == '\'' || b == '"':
		return l.lexQuotedWord(startLine)

	case (b == '0' && l.peekAt(1) == '<') ||
		((b == '1' || b == '2') && l.peekAt(1) == '>'):
		return l.lexRedirect(startLine)

	case b == '<' || b == '>':
		return l.lexRedirect(startLine)

	default:
		return l.lexWord(startLine)
	}
}

// lexWord scans an unquoted word, stopping at the first wordBreak byte
// — except inside an embedded quoted span (e.g. the value half of
// NAME="a b"), where wordBreak bytes like the space are literal and the
// span is skipped whole, matching an ordinary shell's rule that a quote
// can open anywhere in a word, not only at its start.
func (l *Lexer) lexWord(startLine int) (Token, error) {
	start := l.pos
	for l.pos < len(l.src) {
		b := l.src[l.pos]
		if b == '\'' || b == '"' {
			closing := l.pos
			l.pos++
			for l.pos < len(l.src) && l.src[l.pos] != b {
				if l.src[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
			if l.pos >= len(l.src) {
				accumulated := l.src[closing:l.pos]
				return Token{}, &LexError{Pos: Pos(startLine), Msg: fmt.Sprintf("unterminated quote: %s", string(accumulated))}
			}
			l.pos++ // closing quote
			continue
		}
		if wordBreak(b) {
			break
		}
		l.pos++
	}
	val := append([]byte(nil), l.src[start:l.pos]...)
	l.emittedAny = true
	l.lastKind = WordTok
	return Token{Kind: WordTok, Pos: Pos(startLine), Word: word(val, NoQuote)}, nil
}

func (l *Lexer) lexQuotedWord(startLine int) (Token, error) {
	quoteByte := l.src[l.pos]
	l.pos++
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != quoteByte {
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	if l.pos >= len(l.src) {
		accumulated := l.src[start:l.pos]
		msg := "unterminated quote"
		if len(accumulated) > 0 {
			msg = fmt.Sprintf("unterminated quote: %s", string(accumulated))
		}
		return Token{}, &LexError{Pos: Pos(startLine), Msg: msg}
	}
	val := append([]byte(nil), l.src[start:l.pos]...)
	l.pos++ // closing quote

	q := SingleQuote
	if quoteByte == '"' {
		q = DoubleQuote
	}
	l.emittedAny = true
	l.lastKind = WordTok
	return Token{Kind: WordTok, Pos: Pos(startLine), Word: word(val, q)}, nil
}

func word(b []byte, q Quote) Word {
	return Word{Value: b, Quote: q}
}

// lexRedirect scans a redirection operator and its target, starting
// with the optional fd-selector digit (or the bare '<'/'>' forms) and
// ending with either a stream reference (&1, &2) or a regular word.
func (l *Lexer) lexRedirect(startLine int) (Token, error) {
	fd := 1
	switch l.src[l.pos] {
	case '0':
		fd = 0
		l.pos++
	case '1':
		fd = 1
		l.pos++
	case '2':
		fd = 2
		l.pos++
	case '<':
		fd = 0
	case '>':
		fd = 1
	}

	op := l.src[l.pos]
	l.pos++

	mode := Truncate
	if op == '>' {
		if l.pos < len(l.src) && l.src[l.pos] == '>' {
			mode = Append
			l.pos++
		}
	} else {
		// op == '<': a doubled '<' would be a here-document, unsupported.
		if l.pos < len(l.src) && l.src[l.pos] == '<' {
			return Token{}, &LexError{Pos: Pos(startLine), Msg: "here-documents are not supported"}
		}
	}

	if l.pos < len(l.src) && l.src[l.pos] == '&' && (l.peekAt(1) == '1' || l.peekAt(1) == '2') {
		target := l.src[l.pos+1]
		l.pos += 2
		return l.finishStreamRef(startLine, fd, op, mode, target)
	}

	l.emittedAny = true
	wordLine := l.line
	var tok Token
	var err error
	if l.pos < len(l.src) && (l.src[l.pos] == '\'' || l.src[l.pos] == '"') {
		tok, err = l.lexQuotedWord(wordLine)
	} else {
		tok, err = l.lexWord(wordLine)
	}
	if err != nil {
		return Token{}, err
	}
	if len(tok.Word.Value) == 0 {
		return Token{}, &LexError{Pos: Pos(startLine), Msg: "missing redirection target"}
	}

	r, err := buildFileRedirect(startLine, fd, mode, tok.Word)
	if err != nil {
		return Token{}, err
	}
	l.lastKind = RedirectTok
	return Token{Kind: RedirectTok, Pos: Pos(startLine), Redirect: r}, nil
}

func (l *Lexer) finishStreamRef(startLine int, fd int, op byte, mode WriteMode, target byte) (Token, error) {
	if mode == Append {
		return Token{}, &LexError{Pos: Pos(startLine), Msg: "append is not valid for a stream reference"}
	}
	var r Redirect
	switch {
	case fd == 0:
		return Token{}, &LexError{Pos: Pos(startLine), Msg: "cannot redirect stdin to a file descriptor"}
	case fd == 1 && target == '2':
		r = Redirect{Kind: OutToStderr}
	case fd == 1 && target == '1':
		return Token{}, &LexError{Pos: Pos(startLine), Msg: "cannot redirect stdout to itself"}
	case fd == 2 && target == '1':
		r = Redirect{Kind: ErrToStdout}
	case fd == 2 && target == '2':
		return Token{}, &LexError{Pos: Pos(startLine), Msg: "cannot redirect stderr to itself"}
	default:
		return Token{}, &LexError{Pos: Pos(startLine), Msg: "illegal redirection target"}
	}
	l.emittedAny = true
	l.lastKind = RedirectTok
	return Token{Kind: RedirectTok, Pos: Pos(startLine), Redirect: r}, nil
}

func buildFileRedirect(startLine int, fd int, mode WriteMode, path Word) (Redirect, error) {
	switch fd {
	case 0:
		return Redirect{Kind: InFile, Path: path}, nil
	case 1:
		return Redirect{Kind: OutFile, Path: path, Mode: mode}, nil
	case 2:
		return Redirect{Kind: ErrFile, Path: path, Mode: mode}, nil
	default:
		return Redirect{}, &LexError{Pos: Pos(startLine), Msg: "illegal redirection target"}
	}
}
