package cdecl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andaru/vkregistry/regerr"
	"github.com/pkg/errors"
)

// MaxDepth is the deepest pointer nesting the registry uses.
const MaxDepth = 2

// DimKind is the kind of array dimension on a declarator.
type DimKind uint8

const (
	DimNone DimKind = iota
	DimLiteral
	DimConstant
)

func (k DimKind) String() string {
	switch k {
	case DimNone:
		return "none"
	case DimLiteral:
		return "literal"
	case DimConstant:
		return "constant"
	}
	return fmt.Sprintf("DimKind(%d)", int(k))
}

// Dimension describes a fixed-size array declarator.
type Dimension struct {
	Kind DimKind
	// Sizes holds the literal widths, outermost first (DimLiteral).
	Sizes []int
	// Constant names the API constant holding the width (DimConstant).
	Constant string
}

// Declarator is the decoded shape of a member or parameter.
//
// Const[0] is the constness of the base type; Const[i] for i > 0 is the
// constness of the i-th pointer level. So `const char* const* p` has
// Depth 2 with Const[0] and Const[1] set.
type Declarator struct {
	Type     string
	Name     string
	Depth    int
	Const    [MaxDepth + 1]bool
	Struct   bool
	Dim      Dimension
	BitWidth int
}

// Constant reports whether the base type is const qualified.
func (d Declarator) Constant() bool { return d.Const[0] }

// Fragments are the pieces of a declarator as they appear in the
// registry markup.
type Fragments struct {
	Leading  string // text before <type>
	Type     string // <type> content
	Trailing string // text between </type> and <name>
	Name     string // <name> content
	Suffix   string // text after </name>: array brackets, bitfield width
	Bound    string // <enum> content inside the brackets
}

// Parse decodes f. A second pointer level is only accepted when
// multiLevel is set; command prototypes pass false, as no
// entry point returns a pointer to a pointer.
func Parse(f Fragments, multiLevel bool) (Declarator, error) {
	d := Declarator{Type: strings.TrimSpace(f.Type), Name: strings.TrimSpace(f.Name)}
	if d.Type == "" {
		return d, shapeErr(f, "missing type")
	}
	for _, word := range strings.Fields(f.Leading) {
		switch word {
		case "const":
			d.Const[0] = true
		case "struct":
			d.Struct = true
		default:
			return d, shapeErr(f, fmt.Sprintf("unexpected %q before type", word))
		}
	}
	if err := d.pointers(f.Trailing); err != nil {
		return d, shapeErr(f, err.Error())
	}
	if d.Depth == MaxDepth && !multiLevel {
		return d, shapeErr(f, "multi-level pointer not allowed here")
	}
	if err := d.suffix(f.Suffix, strings.TrimSpace(f.Bound)); err != nil {
		return d, shapeErr(f, err.Error())
	}
	return d, nil
}

func (d *Declarator) pointers(s string) error {
	for s = strings.TrimSpace(s); s != ""; s = strings.TrimSpace(s) {
		switch {
		case s[0] == '*':
			if d.Depth++; d.Depth > MaxDepth {
				return errors.Errorf("pointer depth exceeds %d", MaxDepth)
			}
			s = s[1:]
		case strings.HasPrefix(s, "const"):
			d.Const[d.Depth] = true
			s = s[len("const"):]
		default:
			return errors.Errorf("unexpected %q after type", s)
		}
	}
	return nil
}

func (d *Declarator) suffix(s, bound string) error {
	s = strings.TrimSpace(s)
	if bound != "" {
		if strings.Join(strings.Fields(s), "") != "[]" {
			return errors.Errorf("bound %s outside of brackets %q", bound, s)
		}
		d.Dim = Dimension{Kind: DimConstant, Constant: bound}
		return nil
	}
	if strings.HasPrefix(s, ":") {
		w, err := strconv.Atoi(strings.TrimSpace(s[1:]))
		if err != nil || w < 1 {
			return errors.Errorf("bad bitfield width %q", s)
		}
		d.BitWidth = w
		return nil
	}
	for s != "" {
		if s[0] != '[' {
			return errors.Errorf("unexpected %q after name", s)
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return errors.Errorf("unterminated array dimension %q", s)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s[1:end]))
		if err != nil || n < 1 {
			return errors.Errorf("bad array dimension %q", s[:end+1])
		}
		d.Dim.Kind = DimLiteral
		d.Dim.Sizes = append(d.Dim.Sizes, n)
		s = strings.TrimSpace(s[end+1:])
	}
	return nil
}

func shapeErr(f Fragments, msg string) error {
	name := f.Name
	if name == "" {
		name = f.Type
	}
	return errors.WithStack(regerr.ShapeMismatch("declarator", regerr.WithEntity(name), regerr.WithMessage(msg)))
}
