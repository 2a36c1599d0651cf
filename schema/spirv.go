package schema

import (
	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
)

// TryParseCapabilityRule parses a <spirvextension> or a
// <spirvcapability>.
func TryParseCapabilityRule(t xmltok.Tokenizer, cfg *Config) (Result[registry.CapabilityRule], error) {
	var kind registry.RuleKind
	switch name, _, _ := lookahead(t); name {
	case "spirvextension":
		kind = registry.RuleExtension
	case "spirvcapability":
		kind = registry.RuleCapability
	default:
		return NoMatch[registry.CapabilityRule](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.CapabilityRule](), err
	}
	rule := registry.CapabilityRule{Kind: kind, Name: e.attr("name")}
	if rule.Name == "" {
		return NoMatch[registry.CapabilityRule](), shapeErr(&t, e, "rule has no name")
	}
	err = children(&t, e, nil, func(c element) error {
		if c.name != "enable" {
			return skip(&t, c)
		}
		en := registry.Enable{Requires: c.list("requires"), Alias: c.attr("alias")}
		switch {
		case c.has("version"):
			en.Kind, en.Version = registry.EnableVersion, c.attr("version")
		case c.has("extension"):
			en.Kind, en.Extension = registry.EnableExtension, c.attr("extension")
		case c.has("struct"):
			en.Kind, en.Struct, en.Feature = registry.EnableStruct, c.attr("struct"), c.attr("feature")
		case c.has("property"):
			en.Kind = registry.EnableProperty
			en.Property, en.Member, en.Value = c.attr("property"), c.attr("member"), c.attr("value")
		default:
			return shapeErr(&t, c, "enable has no condition", regerr.WithEntity(rule.Name))
		}
		rule.Enables = append(rule.Enables, en)
		return skip(&t, c)
	})
	if err != nil {
		return NoMatch[registry.CapabilityRule](), err
	}
	return Matched(rule, t), nil
}
