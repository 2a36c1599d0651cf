package schema

import (
	"strings"

	"github.com/andaru/vkregistry/cdecl"
	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/pkg/errors"
)

// element is an opened start tag.
type element struct {
	name   string
	attrs  []xmltok.Attr
	empty  bool
	offset int
}

func (e element) attr(name string) string {
	v, _ := xmltok.Lookup(e.attrs, name)
	return v
}

func (e element) has(name string) bool {
	_, ok := xmltok.Lookup(e.attrs, name)
	return ok
}

func (e element) flag(name string) bool { return e.attr(name) == "true" }

func (e element) list(name string) []string { return splitList(e.attr(name)) }

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func boolList(s string) []bool {
	var out []bool
	for _, v := range splitList(s) {
		out = append(out, v == "true")
	}
	return out
}

// skipBlank consumes whitespace-only text runs.
func skipBlank(t *xmltok.Tokenizer) {
	for {
		peek := *t
		if tok := peek.Next(); tok.Kind != xmltok.KindText || !tok.Blank() {
			return
		}
		*t = peek
	}
}

// lookahead returns the name and attributes of the next element
// without consuming anything.
func lookahead(t xmltok.Tokenizer) (string, []xmltok.Attr, bool) {
	skipBlank(&t)
	tok := t.Next()
	if tok.Kind != xmltok.KindStart {
		return "", nil, false
	}
	attrs := t.Attrs()
	return tok.Text, attrs, t.Err() == nil
}

// peekType reports whether the next element is a <type> of category.
func peekType(t xmltok.Tokenizer, category string) ([]xmltok.Attr, bool) {
	name, attrs, ok := lookahead(t)
	if !ok || name != "type" {
		return nil, false
	}
	c, _ := xmltok.Lookup(attrs, "category")
	return attrs, c == category
}

// open consumes the next start tag.
func open(t *xmltok.Tokenizer) (element, error) {
	skipBlank(t)
	off := t.Offset()
	tok := t.Next()
	if tok.Kind != xmltok.KindStart {
		return element{}, shapeErr(t, element{name: tok.Text, offset: off}, "expected start element")
	}
	e := element{name: tok.Text, attrs: t.Attrs(), offset: off}
	e.empty = t.FinishTag()
	return e, t.Err()
}

// children consumes the body of e up to and including its end tag.
// onChild is called for each child element and must consume the
// child's body; onText, if not nil, receives each text run.
func children(t *xmltok.Tokenizer, e element, onText func(string), onChild func(c element) error) error {
	if e.empty {
		return nil
	}
	for {
		off := t.Offset()
		tok := t.Next()
		switch tok.Kind {
		case xmltok.KindText:
			if onText != nil {
				onText(tok.Text)
			}
		case xmltok.KindStart:
			c := element{name: tok.Text, attrs: t.Attrs(), offset: off}
			c.empty = t.FinishTag()
			if err := t.Err(); err != nil {
				return err
			}
			if err := onChild(c); err != nil {
				return err
			}
		case xmltok.KindEnd:
			if tok.Text != e.name {
				return shapeErr(t, e, "unexpected </"+tok.Text+">")
			}
			return nil
		default:
			if err := t.Err(); err != nil {
				return err
			}
			return errors.WithStack(regerr.Syntax(regerr.WithOffset(t.Offset()),
				regerr.WithMessage("unexpected end of input inside <"+e.name+">")))
		}
	}
}

// skip consumes the body of c.
func skip(t *xmltok.Tokenizer, c element) error {
	if !c.empty {
		t.SkipElement()
	}
	return t.Err()
}

// text consumes the body of e and returns its text, including the text
// of nested elements.
func text(t *xmltok.Tokenizer, e element) (string, error) {
	var b strings.Builder
	var collect func(element) error
	collect = func(c element) error {
		return children(t, c, func(s string) { b.WriteString(s) }, collect)
	}
	err := collect(e)
	return b.String(), err
}

// fragments reads the mixed content of a <member> or <param>.
func fragments(t *xmltok.Tokenizer, e element) (cdecl.Fragments, error) {
	var f cdecl.Fragments
	stage := 0
	err := children(t, e, func(s string) {
		switch stage {
		case 0:
			f.Leading += s
		case 1:
			f.Trailing += s
		default:
			f.Suffix += s
		}
	}, func(c element) (err error) {
		switch c.name {
		case "type":
			f.Type, err = text(t, c)
			stage = 1
		case "name":
			f.Name, err = text(t, c)
			stage = 2
		case "enum":
			f.Bound, err = text(t, c)
		default:
			err = skip(t, c)
		}
		return err
	})
	return f, err
}

// shapeErr reports that e is malformed. A tokenizer error takes
// precedence, since it is the cause.
func shapeErr(t *xmltok.Tokenizer, e element, msg string, opts ...regerr.Option) error {
	if err := t.Err(); err != nil {
		return err
	}
	o := []regerr.Option{regerr.WithOffset(e.offset), regerr.WithMessage(msg)}
	if name := e.attr("name"); name != "" {
		o = append(o, regerr.WithEntity(name))
	}
	return errors.WithStack(regerr.ShapeMismatch(e.name, append(o, opts...)...))
}

// shapeErrNoTok is shapeErr for attribute-only checks, where the
// tokenizer cannot have failed.
func shapeErrNoTok(e element, msg string) error {
	var t xmltok.Tokenizer
	return shapeErr(&t, e, msg)
}
