package resolve

import (
	"fmt"
	"slices"

	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/registry"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// ExtBase is the first value reserved for extensions.
	ExtBase = 1_000_000_000
	// ExtRange is the number of values reserved for each extension.
	ExtRange = 1_000
)

const maxAliasHops = 32

// OffsetValue returns the absolute value of an offset contribution
// from extension number ext.
func OffsetValue(ext int, offset int64, negative bool) int64 {
	v := ExtBase + int64(ext-1)*ExtRange + offset
	if negative {
		return -v
	}
	return v
}

type entryForm uint8

const (
	entryValue entryForm = iota
	entryBit
	entryAlias
)

// entry is a group item in merge order.
type entry struct {
	name  string
	form  entryForm
	value int64
	bit   int
	alias string
}

// Groups resolves every value group of src, in document order.
func Groups(src *registry.Source) ([]registry.ResolvedGroup, error) {
	out := make([]registry.ResolvedGroup, 0, len(src.Groups))
	for i := range src.Groups {
		g, err := Group(src, &src.Groups[i])
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Group merges the base items of g with the contributions of every
// feature and then every extension in src, in document order. The
// first contribution of a name wins.
func Group(src *registry.Source, g *registry.ValueGroup) (registry.ResolvedGroup, error) {
	var entries []entry
	seen := map[string]bool{}
	add := func(e entry) {
		if seen[e.name] {
			return
		}
		seen[e.name] = true
		entries = append(entries, e)
	}

	for _, item := range g.Items {
		switch item.Form {
		case registry.FormValue:
			add(entry{name: item.Name, form: entryValue, value: item.Value})
		case registry.FormBitPos:
			add(entry{name: item.Name, form: entryBit, bit: item.Bit})
		case registry.FormAlias:
			add(entry{name: item.Name, form: entryAlias, alias: item.Alias})
		}
	}
	for _, f := range src.Features {
		if err := contribute(g.Name, f.Name, 0, f.Requires, add); err != nil {
			return registry.ResolvedGroup{}, err
		}
	}
	for _, ext := range src.Extensions {
		if err := contribute(g.Name, ext.Name, ext.Number, ext.Requires, add); err != nil {
			return registry.ResolvedGroup{}, err
		}
	}
	return build(g, entries)
}

func contribute(group, owner string, number int, reqs []registry.Requirement, add func(entry)) error {
	for _, req := range reqs {
		for _, item := range req.Items {
			ec := item.Enum
			if item.Kind != registry.ItemEnum || ec.Extends != group {
				continue
			}
			switch ec.Form {
			case registry.ContribValue:
				add(entry{name: ec.Name, form: entryValue, value: ec.Value})
			case registry.ContribBitPos:
				add(entry{name: ec.Name, form: entryBit, bit: ec.Bit})
			case registry.ContribAlias:
				add(entry{name: ec.Name, form: entryAlias, alias: ec.Alias})
			case registry.ContribOffset:
				n := ec.ExtNumber
				if n == 0 {
					n = number
				}
				if n == 0 {
					return errors.WithStack(regerr.ShapeMismatch("enum",
						regerr.WithEntity(ec.Name),
						regerr.WithMessage(fmt.Sprintf("offset in %s without extnumber", owner))))
				}
				add(entry{name: ec.Name, form: entryValue, value: OffsetValue(n, ec.Offset, ec.Negative)})
			}
		}
	}
	return nil
}

// build sorts and deduplicates entries. Flag groups keep bits and
// multi-bit values apart; a single-bit value in a flag group is a bit.
func build(g *registry.ValueGroup, entries []entry) (registry.ResolvedGroup, error) {
	rg := registry.ResolvedGroup{Name: g.Name, Kind: g.Kind, BitWidth: g.BitWidth}
	var fields, masks []registry.Field
	for _, e := range entries {
		switch {
		case e.form == entryAlias:
		case g.Kind == registry.GroupEnum && e.form == entryBit:
			fields = append(fields, registry.Field{Name: e.name, Value: int64(1) << e.bit, Bit: -1})
		case g.Kind == registry.GroupEnum:
			fields = append(fields, registry.Field{Name: e.name, Value: e.value, Bit: -1})
		case e.form == entryBit:
			fields = append(fields, registry.Field{Name: e.name, Value: int64(uint64(1) << e.bit), Bit: e.bit})
		case singleBit(e.value):
			fields = append(fields, registry.Field{Name: e.name, Value: e.value, Bit: bitIndex(e.value)})
		default:
			masks = append(masks, registry.Field{Name: e.name, Value: e.value, Bit: -1})
		}
	}

	dup := map[string]string{}
	if g.Kind == registry.GroupBitmask {
		slices.SortStableFunc(fields, func(a, b registry.Field) int { return a.Bit - b.Bit })
		fields = dedup(fields, dup, func(f registry.Field) int64 { return int64(f.Bit) })
	} else {
		slices.SortStableFunc(fields, byValue)
		fields = dedup(fields, dup, func(f registry.Field) int64 { return f.Value })
	}
	slices.SortStableFunc(masks, byValue)
	masks = dedup(masks, dup, func(f registry.Field) int64 { return f.Value })
	rg.Fields, rg.Masks = fields, masks

	physical := map[string]bool{}
	for _, f := range fields {
		physical[f.Name] = true
	}
	for _, f := range masks {
		physical[f.Name] = true
	}
	aliases := map[string]string{}
	for _, e := range entries {
		if e.form == entryAlias {
			aliases[e.name] = e.alias
		}
	}
	for _, e := range entries {
		if target, ok := dup[e.name]; ok {
			rg.Aliases = append(rg.Aliases, registry.Alias{Name: e.name, Target: target})
			continue
		}
		if e.form != entryAlias {
			continue
		}
		target, ok := ultimate(e.alias, physical, aliases, dup)
		if !ok {
			glog.V(1).Infof("%s: dropping alias %s of unknown %s", g.Name, e.name, e.alias)
			continue
		}
		rg.Aliases = append(rg.Aliases, registry.Alias{Name: e.name, Target: target})
	}

	if g.Kind == registry.GroupBitmask {
		bits := make([]Bit, len(fields))
		for i, f := range fields {
			bits[i] = Bit{Name: f.Name, Pos: f.Bit}
		}
		layout, err := Layout(bits, g.BitWidth)
		if err != nil {
			return rg, errors.WithStack(regerr.ShapeMismatch("enums",
				regerr.WithEntity(g.Name), regerr.WithMessage(err.Error())))
		}
		rg.Layout = layout
	}
	return rg, nil
}

func byValue(a, b registry.Field) int {
	switch {
	case a.Value < b.Value:
		return -1
	case a.Value > b.Value:
		return 1
	}
	return 0
}

// dedup keeps the first field of each key. Later fields are recorded
// in dup as aliases of the first.
func dedup(sorted []registry.Field, dup map[string]string, key func(registry.Field) int64) []registry.Field {
	var out []registry.Field
	for _, f := range sorted {
		if n := len(out); n > 0 && key(out[n-1]) == key(f) {
			dup[f.Name] = out[n-1].Name
			continue
		}
		out = append(out, f)
	}
	return out
}

// ultimate follows name through aliases and duplicates to a physical
// entry. The chain is bounded so that cycles terminate.
func ultimate(name string, physical map[string]bool, aliases, dup map[string]string) (string, bool) {
	for hops := 0; hops <= maxAliasHops; hops++ {
		if physical[name] {
			return name, true
		}
		next, ok := aliases[name]
		if !ok {
			if next, ok = dup[name]; !ok {
				return "", false
			}
		}
		name = next
	}
	return "", false
}

func singleBit(v int64) bool { return v != 0 && uint64(v)&(uint64(v)-1) == 0 }

func bitIndex(v int64) int {
	n := 0
	for u := uint64(v); u > 1; u >>= 1 {
		n++
	}
	return n
}
