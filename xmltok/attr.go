package xmltok

import "strings"

// Attr is a name/value pair from a start tag. Value is exactly the
// quoted text; entity references are not decoded.
type Attr struct {
	Name  string
	Value string
}

// Attribute consumes and returns the next attribute of the open start
// tag. It returns false when the attributes are exhausted, leaving the
// cursor on the tag's '/' or '>', or when no start tag is open.
func (t *Tokenizer) Attribute() (Attr, bool) {
	if t.err != nil || t.state != stateAttr {
		return Attr{}, false
	}
	rest := strings.TrimLeft(t.rest, whitespace)
	t.rest = rest
	if rest == "" {
		t.fail("unterminated start tag <" + t.open)
		return Attr{}, false
	}
	if rest[0] == '/' || rest[0] == '>' {
		return Attr{}, false
	}
	name, n := scanName(rest)
	if name == "" {
		t.fail("malformed attribute in <" + t.open)
		return Attr{}, false
	}
	rest = strings.TrimLeft(rest[n:], whitespace)
	if rest == "" || rest[0] != '=' {
		t.fail("attribute " + name + " missing '='")
		return Attr{}, false
	}
	rest = strings.TrimLeft(rest[1:], whitespace)
	if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
		t.fail("attribute " + name + " value is not quoted")
		return Attr{}, false
	}
	quote := rest[0]
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		t.fail("unterminated value for attribute " + name)
		return Attr{}, false
	}
	t.rest = rest[2+end:]
	return Attr{Name: name, Value: rest[1 : 1+end]}, true
}

// PeekAttribute returns the next attribute without consuming it.
func (t Tokenizer) PeekAttribute() (Attr, bool) { return t.Attribute() }

// Attrs consumes and returns all remaining attributes of the open tag,
// in document order.
func (t *Tokenizer) Attrs() []Attr {
	var attrs []Attr
	for a, ok := t.Attribute(); ok; a, ok = t.Attribute() {
		attrs = append(attrs, a)
	}
	return attrs
}

// Lookup returns the value of the named attribute.
func Lookup(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
