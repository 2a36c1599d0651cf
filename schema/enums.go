package schema

import (
	"strconv"

	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/golang/glog"
)

func peekEnums(t xmltok.Tokenizer) (string, bool) {
	name, attrs, ok := lookahead(t)
	if !ok || name != "enums" {
		return "", false
	}
	typ, _ := xmltok.Lookup(attrs, "type")
	return typ, true
}

// TryParseValueGroup parses an <enums type="enum"> or
// <enums type="bitmask">.
func TryParseValueGroup(t xmltok.Tokenizer, cfg *Config) (Result[registry.ValueGroup], error) {
	cfg = resolved(cfg)
	typ, ok := peekEnums(t)
	if !ok || (typ != "enum" && typ != "bitmask") {
		return NoMatch[registry.ValueGroup](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.ValueGroup](), err
	}
	g := registry.ValueGroup{Name: e.attr("name"), Kind: registry.GroupEnum, BitWidth: 32}
	if typ == "bitmask" {
		g.Kind = registry.GroupBitmask
	}
	if w := e.attr("bitwidth"); w != "" {
		if g.BitWidth, err = strconv.Atoi(w); err != nil || (g.BitWidth != 32 && g.BitWidth != 64) {
			return NoMatch[registry.ValueGroup](), shapeErr(&t, e, "bad bitwidth "+w)
		}
	}
	if g.Name == "" {
		return NoMatch[registry.ValueGroup](), shapeErr(&t, e, "enums has no name")
	}
	err = children(&t, e, nil, func(c element) error {
		if c.name != "enum" {
			return skip(&t, c)
		}
		if !cfg.selects(c.attrs, "api") {
			glog.V(1).Infof("%s: skipping %s for another api", g.Name, c.attr("name"))
			return skip(&t, c)
		}
		item, err := valueItem(c)
		if err != nil {
			return err
		}
		g.Items = append(g.Items, item)
		return skip(&t, c)
	})
	if err != nil {
		return NoMatch[registry.ValueGroup](), err
	}
	return Matched(g, t), nil
}

func valueItem(c element) (registry.ValueItem, error) {
	item := registry.ValueItem{Name: c.attr("name"), Deprecated: c.attr("deprecated")}
	switch {
	case c.has("alias"):
		item.Form = registry.FormAlias
		item.Alias = c.attr("alias")
	case c.has("bitpos"):
		lit := c.attr("bitpos")
		bit, err := strconv.Atoi(lit)
		if err != nil || bit < 0 || bit > 63 {
			return item, malformed(item.Name, lit, err)
		}
		item.Form, item.Bit = registry.FormBitPos, bit
	case c.has("value"):
		lit := c.attr("value")
		v, err := parseInteger(lit)
		if err != nil {
			return item, malformed(item.Name, lit, err)
		}
		item.Form, item.Value = registry.FormValue, v
	default:
		return item, shapeErrNoTok(c, "enum has no value, bitpos or alias")
	}
	if item.Name == "" {
		return item, shapeErrNoTok(c, "enum has no name")
	}
	return item, nil
}

// TryParseConstantGroup parses an <enums> without a type, or with
// type="constants".
func TryParseConstantGroup(t xmltok.Tokenizer, cfg *Config) (Result[registry.ConstantGroup], error) {
	cfg = resolved(cfg)
	typ, ok := peekEnums(t)
	if !ok || (typ != "" && typ != "constants") {
		return NoMatch[registry.ConstantGroup](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.ConstantGroup](), err
	}
	g := registry.ConstantGroup{Name: e.attr("name")}
	err = children(&t, e, nil, func(c element) error {
		if c.name != "enum" || !cfg.selects(c.attrs, "api") {
			return skip(&t, c)
		}
		k, err := constant(c)
		if err != nil {
			return err
		}
		g.Constants = append(g.Constants, k)
		return skip(&t, c)
	})
	if err != nil {
		return NoMatch[registry.ConstantGroup](), err
	}
	return Matched(g, t), nil
}

func constant(c element) (registry.Constant, error) {
	k := registry.Constant{Name: c.attr("name"), Literal: c.attr("value")}
	if k.Name == "" {
		return k, shapeErrNoTok(c, "constant has no name")
	}
	if c.has("alias") {
		k.Kind, k.Alias = registry.ConstAlias, c.attr("alias")
		return k, nil
	}
	if !c.has("value") {
		return k, shapeErrNoTok(c, "constant has no value")
	}
	kind, ok := constantKind(c.attr("type"), k.Literal)
	if !ok {
		return k, shapeErrNoTok(c, "unknown constant type "+c.attr("type"))
	}
	k.Kind = kind
	return k, decodeConstant(&k)
}
