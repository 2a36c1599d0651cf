package xmltok

import (
	"fmt"
	"strings"

	"github.com/andaru/vkregistry/regerr"
	"github.com/pkg/errors"
)

// Kind identifies the syntactic kind of a token.
type Kind uint8

const (
	KindEOF Kind = iota
	KindText
	KindStart
	KindEnd
	KindSelfClose
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindText:
		return "Text"
	case KindStart:
		return "Start"
	case KindEnd:
		return "End"
	case KindSelfClose:
		return "SelfClose"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single structural token. Text holds the element name for
// Start, End and SelfClose tokens and the raw run for Text tokens.
type Token struct {
	Kind Kind
	Text string
}

func (tok Token) String() string {
	switch tok.Kind {
	case KindStart:
		return "<" + tok.Text
	case KindEnd:
		return "</" + tok.Text + ">"
	case KindSelfClose:
		return "<" + tok.Text + "/>"
	case KindText:
		return fmt.Sprintf("%q", tok.Text)
	}
	return tok.Kind.String()
}

// IsStart returns true if tok opens an element called name.
func (tok Token) IsStart(name string) bool { return tok.Kind == KindStart && tok.Text == name }

// Blank returns true for text runs holding only whitespace.
func (tok Token) Blank() bool {
	return tok.Kind == KindText && strings.TrimSpace(tok.Text) == ""
}

type scanState uint8

const (
	stateTag scanState = iota
	stateAttr
)

// Tokenizer is the tokenizer state. It is a value type; see the
// package documentation for the snapshot and rollback idiom.
type Tokenizer struct {
	src   string
	rest  string
	open  string
	state scanState
	err   error
}

// New returns a Tokenizer positioned at the start of src.
func New(src string) Tokenizer { return Tokenizer{src: src, rest: src} }

// Rest returns the unconsumed input.
func (t Tokenizer) Rest() string { return t.rest }

// Err returns the sticky syntax error, if any.
func (t Tokenizer) Err() error { return t.err }

// Offset returns the byte offset of the cursor in the source.
func (t Tokenizer) Offset() int { return len(t.src) - len(t.rest) }

// Line returns the 1-based line number of the cursor.
func (t Tokenizer) Line() int { return strings.Count(t.src[:t.Offset()], "\n") + 1 }

// InTag returns true while a start tag is open and its attributes
// have not been finished.
func (t Tokenizer) InTag() bool { return t.state == stateAttr }

// Peek returns the next token without advancing t.
func (t Tokenizer) Peek() Token { return t.Next() }

// Next consumes and returns the next token.
func (t *Tokenizer) Next() Token {
	if t.err != nil {
		return Token{}
	}
	if t.state == stateAttr {
		name := t.open
		if t.FinishTag() {
			return Token{Kind: KindSelfClose, Text: name}
		}
		if t.err != nil {
			return Token{}
		}
	}
	for {
		if t.rest == "" {
			return Token{Kind: KindEOF}
		}
		if t.rest[0] != '<' {
			i := strings.IndexByte(t.rest, '<')
			if i < 0 {
				i = len(t.rest)
			}
			text := t.rest[:i]
			t.rest = t.rest[i:]
			return Token{Kind: KindText, Text: text}
		}
		switch {
		case strings.HasPrefix(t.rest, "<?"):
			if !t.skipPast("?>", "unterminated processing instruction") {
				return Token{}
			}
		case strings.HasPrefix(t.rest, "<!--"):
			if !t.skipPast("-->", "unterminated comment") {
				return Token{}
			}
		case strings.HasPrefix(t.rest, "<![CDATA["):
			body := t.rest[len("<![CDATA["):]
			i := strings.Index(body, "]]>")
			if i < 0 {
				t.fail("unterminated CDATA section")
				return Token{}
			}
			t.rest = body[i+len("]]>"):]
			return Token{Kind: KindText, Text: body[:i]}
		case strings.HasPrefix(t.rest, "<!"):
			if !t.skipPast(">", "unterminated declaration") {
				return Token{}
			}
		case strings.HasPrefix(t.rest, "</"):
			name, n := scanName(t.rest[2:])
			if name == "" {
				t.fail("missing end element name")
				return Token{}
			}
			after := strings.TrimLeft(t.rest[2+n:], whitespace)
			if after == "" || after[0] != '>' {
				t.fail("malformed end element </" + name)
				return Token{}
			}
			t.rest = after[1:]
			return Token{Kind: KindEnd, Text: name}
		default:
			name, n := scanName(t.rest[1:])
			if name == "" {
				t.fail("malformed start element")
				return Token{}
			}
			t.rest = t.rest[1+n:]
			t.state, t.open = stateAttr, name
			return Token{Kind: KindStart, Text: name}
		}
	}
}

// FinishTag consumes the remaining attributes of the open start tag and
// its closing '>' or '/>'. It returns true if the element was
// self-closing, in which case no body and no end tag follow.
func (t *Tokenizer) FinishTag() (selfClosing bool) {
	for _, ok := t.Attribute(); ok; _, ok = t.Attribute() {
	}
	if t.err != nil || t.state != stateAttr {
		return false
	}
	t.state, t.open = stateTag, ""
	switch {
	case strings.HasPrefix(t.rest, "/>"):
		t.rest = t.rest[2:]
		return true
	case strings.HasPrefix(t.rest, ">"):
		t.rest = t.rest[1:]
		return false
	}
	t.fail("malformed start tag end")
	return false
}

// SkipElement consumes tokens until the element whose Start token was
// most recently consumed is closed. Nested elements (same-named or not)
// and self-closing children are balanced by depth counting, so on any
// well-formed input the call always makes progress.
func (t *Tokenizer) SkipElement() {
	if t.state == stateAttr && t.FinishTag() {
		return
	}
	for depth := 1; depth > 0; {
		switch tok := t.Next(); tok.Kind {
		case KindStart:
			depth++
		case KindEnd, KindSelfClose:
			depth--
		case KindEOF:
			if t.err == nil {
				t.fail("unexpected end of input inside element")
			}
			return
		}
	}
}

func (t *Tokenizer) skipPast(terminator, msg string) bool {
	i := strings.Index(t.rest, terminator)
	if i < 0 {
		t.fail(msg)
		return false
	}
	t.rest = t.rest[i+len(terminator):]
	return true
}

func (t *Tokenizer) fail(msg string) {
	t.err = errors.WithStack(regerr.Syntax(
		regerr.WithOffset(t.Offset()),
		regerr.WithMessage(fmt.Sprintf("line %d: %s", t.Line(), msg))))
}

const whitespace = " \t\r\n"

// scanName returns the XML name at the start of s and its length.
func scanName(s string) (string, int) {
	i := 0
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '/', '>', '=', '<', '"', '\'':
			return s[:i], i
		}
		i++
	}
	return s[:i], i
}
