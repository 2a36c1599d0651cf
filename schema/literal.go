package schema

import (
	"math"
	"strconv"
	"strings"

	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/registry"
	"github.com/pkg/errors"
)

// parseInteger decodes the integer literals used by the registry:
// decimal, negative decimal and 0x hex, with optional U, L, UL, LL and
// ULL suffixes, and the parenthesized complement forms such as (~0U).
// A complement is taken at 32 bits unless the suffix names a 64-bit
// type.
func parseInteger(lit string) (int64, error) {
	s := strings.TrimSpace(lit)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	complement := strings.HasPrefix(s, "~")
	if complement {
		s = strings.TrimSpace(s[1:])
	}
	wide := false
	for _, suffix := range []string{"ULL", "LL", "UL", "L", "U"} {
		if len(s) > len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
			s = s[:len(s)-len(suffix)]
			wide = strings.Contains(strings.ToUpper(suffix), "L")
			break
		}
	}
	var (
		v   int64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		var u uint64
		u, err = strconv.ParseUint(s[2:], 16, 64)
		v = int64(u)
	} else {
		v, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if complement {
		if wide {
			return int64(^uint64(v)), nil
		}
		return int64(^uint32(v)), nil
	}
	return v, nil
}

// parseFloat decodes a float literal with an optional F suffix.
func parseFloat(lit string) (float32, error) {
	s := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(lit), "F"), "f")
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

// constantKind returns the kind of a constant. Older registries omit
// the type attribute, in which case it follows from the literal.
func constantKind(typ, lit string) (registry.ConstKind, bool) {
	switch typ {
	case "uint32_t":
		return registry.ConstUint32, true
	case "uint64_t":
		return registry.ConstUint64, true
	case "int32_t":
		return registry.ConstInt32, true
	case "float":
		return registry.ConstFloat32, true
	case "":
		u := strings.ToUpper(strings.TrimSpace(lit))
		switch {
		case strings.HasSuffix(u, "F") && !strings.HasPrefix(u, "0X"):
			return registry.ConstFloat32, true
		case strings.Contains(u, "ULL"):
			return registry.ConstUint64, true
		}
		return registry.ConstUint32, true
	}
	return 0, false
}

// decodeConstant fills the value of c from its literal.
func decodeConstant(c *registry.Constant) error {
	if c.Kind == registry.ConstFloat32 {
		f, err := parseFloat(c.Literal)
		if err != nil {
			return malformed(c.Name, c.Literal, err)
		}
		c.Float = f
		return nil
	}
	v, err := parseInteger(c.Literal)
	if err != nil {
		return malformed(c.Name, c.Literal, err)
	}
	switch c.Kind {
	case registry.ConstUint32:
		if v < 0 || v > math.MaxUint32 {
			return malformed(c.Name, c.Literal, errors.New("out of range for uint32_t"))
		}
	case registry.ConstInt32:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return malformed(c.Name, c.Literal, errors.New("out of range for int32_t"))
		}
		v = int64(uint32(int32(v)))
	}
	c.Int = uint64(v)
	return nil
}

func malformed(name, lit string, cause error) error {
	msg := "bad literal"
	if ne, ok := errors.Cause(cause).(*strconv.NumError); ok {
		msg = ne.Err.Error()
	} else if cause != nil {
		msg = cause.Error()
	}
	return errors.WithStack(regerr.MalformedLiteral(lit,
		regerr.WithElement("enum"), regerr.WithEntity(name), regerr.WithMessage(msg)))
}
