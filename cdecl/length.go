package cdecl

import "strings"

// LenKind classifies one comma-separated element of a len attribute.
type LenKind uint8

const (
	// LenMember names a sibling member or parameter holding the count.
	LenMember LenKind = iota
	// LenNullTerminated marks a null-terminated array or string.
	LenNullTerminated
	// LenOne marks a pointer to exactly one element.
	LenOne
	// LenExpr is a latexmath expression; AltLen carries its C form.
	LenExpr
)

func (k LenKind) String() string {
	switch k {
	case LenMember:
		return "member"
	case LenNullTerminated:
		return "null-terminated"
	case LenOne:
		return "one"
	case LenExpr:
		return "expression"
	}
	return "unknown"
}

// LenToken is a decoded len element, one per pointer level.
type LenToken struct {
	Kind   LenKind
	Value  string
	AltLen string
}

const latexPrefix = "latexmath:"

// ParseLength splits a len attribute into its tokens. Commas inside
// brackets or parentheses do not split. Each latexmath element takes the
// next element of altlen, if any.
func ParseLength(length, altlen string) []LenToken {
	if strings.TrimSpace(length) == "" {
		return nil
	}
	alts := splitTop(altlen)
	var toks []LenToken
	for _, part := range splitTop(length) {
		tok := LenToken{Value: part}
		switch {
		case part == "null-terminated":
			tok.Kind = LenNullTerminated
		case part == "1":
			tok.Kind = LenOne
		case strings.HasPrefix(part, latexPrefix):
			tok.Kind = LenExpr
			if len(alts) > 0 {
				tok.AltLen, alts = alts[0], alts[1:]
			}
		default:
			tok.Kind = LenMember
		}
		toks = append(toks, tok)
	}
	return toks
}

func splitTop(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}
