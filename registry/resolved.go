package registry

import (
	"strings"

	"github.com/pkg/errors"
)

// Field is a physical entry of a resolved group. Bit is the bit index
// of a flag bit and -1 otherwise.
type Field struct {
	Name  string
	Value int64
	Bit   int
}

// Alias maps a duplicate or renamed entry to its target.
type Alias struct {
	Name   string
	Target string
}

// Span is one run of bits in a flag group layout.
type Span struct {
	Name    string
	Bit     int
	Width   int
	Padding bool
}

// ResolvedGroup is a value group after extension contributions have
// been merged. Fields are sorted by value, or by bit index for flag
// groups; Masks holds the multi-bit values of a flag group.
type ResolvedGroup struct {
	Name     string
	Kind     GroupKind
	BitWidth int
	Fields   []Field
	Masks    []Field
	Aliases  []Alias
	Layout   []Span
}

// Field returns the entry for name, following aliases.
func (g *ResolvedGroup) Field(name string) (Field, bool) {
	for hops := 0; hops <= maxAliasHops; hops++ {
		for _, f := range g.Fields {
			if f.Name == name {
				return f, true
			}
		}
		for _, f := range g.Masks {
			if f.Name == name {
				return f, true
			}
		}
		target := ""
		for _, a := range g.Aliases {
			if a.Name == name {
				target = a.Target
				break
			}
		}
		if target == "" {
			return Field{}, false
		}
		name = target
	}
	return Field{}, false
}

// Dispatch is the object a command is dispatched through.
type Dispatch uint8

const (
	DispatchGlobal Dispatch = iota
	DispatchInstance
	DispatchDevice
)

func (d Dispatch) String() string {
	switch d {
	case DispatchInstance:
		return "instance"
	case DispatchDevice:
		return "device"
	}
	return "global"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dispatch) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "global":
		*d = DispatchGlobal
	case "instance":
		*d = DispatchInstance
	case "device":
		*d = DispatchDevice
	default:
		return errors.Errorf("unknown dispatch %q", b)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Dispatch) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
