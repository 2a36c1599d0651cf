package schema

import (
	"fmt"

	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/golang/glog"
)

// parseFunc runs one candidate parser and, on a match, stores the
// record in src.
type parseFunc func(t xmltok.Tokenizer, cfg *Config, src *registry.Source) (xmltok.Tokenizer, bool, error)

func into[T any](try func(xmltok.Tokenizer, *Config) (Result[T], error), store func(*registry.Source, T)) parseFunc {
	return func(t xmltok.Tokenizer, cfg *Config, src *registry.Source) (xmltok.Tokenizer, bool, error) {
		r, err := try(t, cfg)
		if err != nil || !r.Ok() {
			return t, false, err
		}
		store(src, r.Value)
		return r.Next, true, nil
	}
}

// candidate is a row of the dispatch table. An empty category matches
// any category.
type candidate struct {
	element  string
	category string
	parse    parseFunc
}

// candidates are tried in order for each element.
var candidates = []candidate{
	{"type", "basetype", into(TryParseBaseType, func(s *registry.Source, v registry.BaseType) { s.BaseTypes = append(s.BaseTypes, v) })},
	{"type", "handle", into(TryParseHandle, func(s *registry.Source, v registry.Handle) { s.Handles = append(s.Handles, v) })},
	{"type", "enum", into(TryParseEnumType, func(s *registry.Source, v registry.EnumType) { s.EnumTypes = append(s.EnumTypes, v) })},
	{"type", "bitmask", into(TryParseBitmask, func(s *registry.Source, v registry.Bitmask) { s.Bitmasks = append(s.Bitmasks, v) })},
	{"type", "struct", into(TryParseStruct, func(s *registry.Source, v registry.Struct) { s.Structs = append(s.Structs, v) })},
	{"type", "union", into(TryParseStruct, func(s *registry.Source, v registry.Struct) { s.Structs = append(s.Structs, v) })},
	{"type", "funcpointer", into(TryParseFuncPointer, func(s *registry.Source, v registry.FuncPointer) { s.FuncPointers = append(s.FuncPointers, v) })},
	{"type", "", into(TryParseExternal, func(s *registry.Source, v registry.BaseType) { s.BaseTypes = append(s.BaseTypes, v) })},
	{"enums", "", into(TryParseValueGroup, func(s *registry.Source, v registry.ValueGroup) { s.Groups = append(s.Groups, v) })},
	{"enums", "", into(TryParseConstantGroup, func(s *registry.Source, v registry.ConstantGroup) { s.Constants = append(s.Constants, v) })},
	{"command", "", into(TryParseCommand, func(s *registry.Source, v registry.Command) { s.Commands = append(s.Commands, v) })},
	{"extension", "", into(TryParseExtension, func(s *registry.Source, v registry.Extension) { s.Extensions = append(s.Extensions, v) })},
	{"feature", "", into(TryParseFeature, func(s *registry.Source, v registry.Feature) { s.Features = append(s.Features, v) })},
	{"spirvextension", "", into(TryParseCapabilityRule, func(s *registry.Source, v registry.CapabilityRule) { s.Rules = append(s.Rules, v) })},
	{"spirvcapability", "", into(TryParseCapabilityRule, func(s *registry.Source, v registry.CapabilityRule) { s.Rules = append(s.Rules, v) })},
	{"platform", "", into(TryParsePlatform, func(s *registry.Source, v registry.Platform) { s.Platforms = append(s.Platforms, v) })},
	{"tag", "", into(TryParseTag, func(s *registry.Source, v registry.VendorTag) { s.Tags = append(s.Tags, v) })},
}

// containers are descended into.
var containers = map[string]bool{
	"registry":          true,
	"types":             true,
	"commands":          true,
	"extensions":        true,
	"spirvextensions":   true,
	"spirvcapabilities": true,
	"platforms":         true,
	"tags":              true,
}

// ignored elements are skipped without logging.
var ignored = map[string]bool{
	"comment":     true,
	"formats":     true,
	"sync":        true,
	"videocodecs": true,
}

var ignoredCategories = map[string]bool{
	"include": true,
	"define":  true,
}

// Parse parses a registry document.
func Parse(src string, cfg *Config) (registry.Source, error) {
	cfg = resolved(cfg)
	out := registry.Source{Text: src}
	t := xmltok.New(src)
	for {
		peek := t
		tok := peek.Next()
		switch tok.Kind {
		case xmltok.KindEOF:
			return out, peek.Err()
		case xmltok.KindStart:
		default:
			t = peek
			continue
		}
		name := tok.Text
		attrs := peek.Attrs()
		category, _ := xmltok.Lookup(attrs, "category")
		switch {
		case containers[name]:
			peek.FinishTag()
			t = peek
			continue
		case ignored[name], name == "type" && ignoredCategories[category]:
			peek.SkipElement()
			t = peek
			continue
		}
		next, err := dispatch(t, name, category, cfg, &out)
		if err != nil {
			return out, err
		}
		t = next
	}
}

// dispatch runs the candidates for the element at t and returns the
// tokenizer positioned after it.
func dispatch(t xmltok.Tokenizer, name, category string, cfg *Config, src *registry.Source) (xmltok.Tokenizer, error) {
	for _, c := range candidates {
		if c.element != name || (c.category != "" && c.category != category) {
			continue
		}
		next, ok, err := c.parse(t, cfg, src)
		switch {
		case err != nil && (regerr.IsFatal(err) || cfg.Policy == PolicyStrict):
			return t, err
		case err != nil:
			cfg.Reporter.Report(err)
			return skipElement(t), nil
		case ok:
			if glog.V(2) {
				glog.Infof("parsed <%s> %s at line %d", name, category, t.Line())
			}
			return next, nil
		}
	}
	if glog.V(1) {
		glog.Infof("skipping: %v", unknown(t, name))
	}
	return skipElement(t), nil
}

// unknown describes the element at t that no candidate accepted.
func unknown(t xmltok.Tokenizer, name string) *regerr.Error {
	return regerr.UnknownElement(name,
		regerr.WithOffset(t.Offset()),
		regerr.WithMessage(fmt.Sprintf("line %d", t.Line())))
}

func skipElement(t xmltok.Tokenizer) xmltok.Tokenizer {
	t.Next()
	t.SkipElement()
	return t
}
