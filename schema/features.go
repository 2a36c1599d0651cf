package schema

import (
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
)

// TryParseFeature parses a <feature>, a core API version.
func TryParseFeature(t xmltok.Tokenizer, cfg *Config) (Result[registry.Feature], error) {
	cfg = resolved(cfg)
	name, attrs, ok := lookahead(t)
	if !ok || name != "feature" || !cfg.selects(attrs, "api") {
		return NoMatch[registry.Feature](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.Feature](), err
	}
	f := registry.Feature{
		Name:    e.attr("name"),
		API:     e.list("api"),
		Number:  e.attr("number"),
		Depends: e.attr("depends"),
	}
	if f.Name == "" {
		return NoMatch[registry.Feature](), shapeErr(&t, e, "feature has no name")
	}
	if f.Requires, err = requirements(&t, e, cfg); err != nil {
		return NoMatch[registry.Feature](), err
	}
	return Matched(f, t), nil
}
