package schema

import (
	"strings"

	"github.com/andaru/vkregistry/cdecl"
	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/pkg/errors"
)

// TryParseBaseType parses a <type category="basetype">.
func TryParseBaseType(t xmltok.Tokenizer, cfg *Config) (Result[registry.BaseType], error) {
	cfg = resolved(cfg)
	if attrs, ok := peekType(t, "basetype"); !ok || !cfg.selects(attrs, "api") {
		return NoMatch[registry.BaseType](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.BaseType](), err
	}
	var (
		bt   registry.BaseType
		body strings.Builder
	)
	err = children(&t, e, func(s string) { body.WriteString(s) }, func(c element) (err error) {
		switch c.name {
		case "name":
			bt.Name, err = text(&t, c)
		case "type":
			bt.Underlying, err = text(&t, c)
		default:
			err = skip(&t, c)
		}
		return err
	})
	if err != nil {
		return NoMatch[registry.BaseType](), err
	}
	if bt.Name == "" {
		return NoMatch[registry.BaseType](), shapeErr(&t, e, "basetype has no <name>")
	}
	// The text runs either side of <name> are scanned together, so the
	// pointer of an Objective-C style "typedef void* <name>X</name>" and
	// one re-emitted after the name are both seen.
	s := body.String()
	switch {
	case strings.Contains(s, "*"):
		bt.Kind = registry.BaseOpaquePointer
	case strings.Contains(s, "struct") && !strings.Contains(s, "typedef"):
		bt.Kind = registry.BaseOpaqueStruct
	case bt.Underlying == "" && strings.Contains(s, "void"):
		bt.Kind = registry.BaseOpaqueStruct
	case bt.Underlying == "":
		return NoMatch[registry.BaseType](), shapeErr(&t, e, "basetype has no underlying type",
			regerr.WithEntity(bt.Name))
	default:
		bt.Kind = registry.BasePrimitive
	}
	return Matched(bt, t), nil
}

// TryParseExternal parses a <type> without a category: a type provided
// by a platform or C header.
func TryParseExternal(t xmltok.Tokenizer, cfg *Config) (Result[registry.BaseType], error) {
	cfg = resolved(cfg)
	name, attrs, ok := lookahead(t)
	if !ok || name != "type" || !cfg.selects(attrs, "api") {
		return NoMatch[registry.BaseType](), nil
	}
	if _, has := xmltok.Lookup(attrs, "category"); has {
		return NoMatch[registry.BaseType](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.BaseType](), err
	}
	if !e.has("name") {
		return NoMatch[registry.BaseType](), shapeErr(&t, e, "external type has no name")
	}
	if err := skip(&t, e); err != nil {
		return NoMatch[registry.BaseType](), err
	}
	return Matched(registry.BaseType{
		Name:     e.attr("name"),
		Kind:     registry.BaseExternal,
		Requires: e.attr("requires"),
	}, t), nil
}

const (
	dispatchableMacro    = "VK_DEFINE_HANDLE"
	nonDispatchableMacro = "VK_DEFINE_NON_DISPATCHABLE_HANDLE"
)

// TryParseHandle parses a <type category="handle">.
func TryParseHandle(t xmltok.Tokenizer, cfg *Config) (Result[registry.Handle], error) {
	cfg = resolved(cfg)
	if attrs, ok := peekType(t, "handle"); !ok || !cfg.selects(attrs, "api") {
		return NoMatch[registry.Handle](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.Handle](), err
	}
	if e.has("alias") {
		if err := skip(&t, e); err != nil {
			return NoMatch[registry.Handle](), err
		}
		return Matched(registry.Handle{Name: e.attr("name"), Alias: e.attr("alias")}, t), nil
	}
	h := registry.Handle{Parent: e.attr("parent"), ObjTypeEnum: e.attr("objtypeenum")}
	var macro string
	err = children(&t, e, nil, func(c element) (err error) {
		switch c.name {
		case "type":
			macro, err = text(&t, c)
		case "name":
			h.Name, err = text(&t, c)
		default:
			err = skip(&t, c)
		}
		return err
	})
	if err != nil {
		return NoMatch[registry.Handle](), err
	}
	switch {
	case h.Name == "":
		return NoMatch[registry.Handle](), shapeErr(&t, e, "handle has no <name>")
	case macro == dispatchableMacro:
		h.Dispatchable = true
	case macro == nonDispatchableMacro:
	default:
		return NoMatch[registry.Handle](), shapeErr(&t, e, "unknown handle macro "+macro, regerr.WithEntity(h.Name))
	}
	return Matched(h, t), nil
}

// TryParseEnumType parses a <type category="enum">.
func TryParseEnumType(t xmltok.Tokenizer, cfg *Config) (Result[registry.EnumType], error) {
	cfg = resolved(cfg)
	if attrs, ok := peekType(t, "enum"); !ok || !cfg.selects(attrs, "api") {
		return NoMatch[registry.EnumType](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.EnumType](), err
	}
	if !e.has("name") {
		return NoMatch[registry.EnumType](), shapeErr(&t, e, "enum type has no name")
	}
	if err := skip(&t, e); err != nil {
		return NoMatch[registry.EnumType](), err
	}
	return Matched(registry.EnumType{Name: e.attr("name"), Alias: e.attr("alias")}, t), nil
}

// TryParseBitmask parses a <type category="bitmask">.
func TryParseBitmask(t xmltok.Tokenizer, cfg *Config) (Result[registry.Bitmask], error) {
	cfg = resolved(cfg)
	if attrs, ok := peekType(t, "bitmask"); !ok || !cfg.selects(attrs, "api") {
		return NoMatch[registry.Bitmask](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.Bitmask](), err
	}
	if e.has("alias") {
		if err := skip(&t, e); err != nil {
			return NoMatch[registry.Bitmask](), err
		}
		return Matched(registry.Bitmask{Name: e.attr("name"), Alias: e.attr("alias")}, t), nil
	}
	b := registry.Bitmask{Bits: e.attr("requires")}
	if v := e.attr("bitvalues"); v != "" {
		b.Bits = v
	}
	var flagsType string
	err = children(&t, e, nil, func(c element) (err error) {
		switch c.name {
		case "type":
			flagsType, err = text(&t, c)
		case "name":
			b.Name, err = text(&t, c)
		default:
			err = skip(&t, c)
		}
		return err
	})
	if err != nil {
		return NoMatch[registry.Bitmask](), err
	}
	switch flagsType {
	case "VkFlags":
		b.Width = 32
	case "VkFlags64":
		b.Width = 64
	default:
		return NoMatch[registry.Bitmask](), shapeErr(&t, e, "unknown flags type "+flagsType, regerr.WithEntity(b.Name))
	}
	if b.Name == "" {
		return NoMatch[registry.Bitmask](), shapeErr(&t, e, "bitmask has no <name>")
	}
	return Matched(b, t), nil
}

// TryParseStruct parses a <type category="struct"> or a
// <type category="union">.
func TryParseStruct(t xmltok.Tokenizer, cfg *Config) (Result[registry.Struct], error) {
	cfg = resolved(cfg)
	attrs, isStruct := peekType(t, "struct")
	if !isStruct {
		var isUnion bool
		if attrs, isUnion = peekType(t, "union"); !isUnion {
			return NoMatch[registry.Struct](), nil
		}
	}
	if !cfg.selects(attrs, "api") {
		return NoMatch[registry.Struct](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.Struct](), err
	}
	s := registry.Struct{
		Name:           e.attr("name"),
		Alias:          e.attr("alias"),
		Union:          !isStruct,
		ReturnedOnly:   e.flag("returnedonly"),
		AllowDuplicate: e.flag("allowduplicate"),
		StructExtends:  e.list("structextends"),
	}
	if s.Name == "" {
		return NoMatch[registry.Struct](), shapeErr(&t, e, "struct has no name")
	}
	err = children(&t, e, nil, func(c element) error {
		if c.name != "member" || !cfg.selects(c.attrs, "api") {
			return skip(&t, c)
		}
		m, err := member(&t, c)
		if err != nil {
			return errors.Wrapf(err, "%s member", s.Name)
		}
		s.Members = append(s.Members, m)
		return nil
	})
	if err != nil {
		return NoMatch[registry.Struct](), err
	}
	if s.Alias != "" && len(s.Members) > 0 {
		return NoMatch[registry.Struct](), shapeErr(&t, e, "alias struct has members")
	}
	return Matched(s, t), nil
}

// multiLevel is passed to cdecl.Parse for members and params. The
// registry declares "const char* const*" name arrays and "void**"
// out-params without marking them, so both always accept two levels.
const multiLevel = true

// member reads a <member>.
func member(t *xmltok.Tokenizer, c element) (registry.Member, error) {
	f, err := fragments(t, c)
	if err != nil {
		return registry.Member{}, err
	}
	d, err := cdecl.Parse(f, multiLevel)
	if err != nil {
		return registry.Member{}, err
	}
	return registry.Member{
		Declarator:     d,
		Len:            cdecl.ParseLength(c.attr("len"), c.attr("altlen")),
		AltLen:         c.attr("altlen"),
		Optional:       boolList(c.attr("optional")),
		Selector:       c.attr("selector"),
		Selection:      c.list("selection"),
		Values:         c.attr("values"),
		ExternSync:     c.attr("externsync"),
		LimitType:      c.attr("limittype"),
		NoAutoValidity: c.flag("noautovalidity"),
	}, nil
}

// TryParseFuncPointer parses a <type category="funcpointer">.
func TryParseFuncPointer(t xmltok.Tokenizer, cfg *Config) (Result[registry.FuncPointer], error) {
	cfg = resolved(cfg)
	if attrs, ok := peekType(t, "funcpointer"); !ok || !cfg.selects(attrs, "api") {
		return NoMatch[registry.FuncPointer](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.FuncPointer](), err
	}
	src, err := text(&t, e)
	if err != nil {
		return NoMatch[registry.FuncPointer](), err
	}
	fp, err := cdecl.ParseFuncPointer(xmltok.Unescape(src))
	if err != nil {
		return NoMatch[registry.FuncPointer](), err
	}
	return Matched(fp, t), nil
}
