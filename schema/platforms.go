package schema

import (
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
)

// TryParsePlatform parses a <platform>.
func TryParsePlatform(t xmltok.Tokenizer, _ *Config) (Result[registry.Platform], error) {
	name, _, ok := lookahead(t)
	if !ok || name != "platform" {
		return NoMatch[registry.Platform](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.Platform](), err
	}
	if !e.has("name") || !e.has("protect") {
		return NoMatch[registry.Platform](), shapeErr(&t, e, "platform needs name and protect")
	}
	if err := skip(&t, e); err != nil {
		return NoMatch[registry.Platform](), err
	}
	return Matched(registry.Platform{Name: e.attr("name"), Protect: e.attr("protect"), Comment: e.attr("comment")}, t), nil
}

// TryParseTag parses a vendor <tag>.
func TryParseTag(t xmltok.Tokenizer, _ *Config) (Result[registry.VendorTag], error) {
	name, _, ok := lookahead(t)
	if !ok || name != "tag" {
		return NoMatch[registry.VendorTag](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.VendorTag](), err
	}
	if !e.has("name") {
		return NoMatch[registry.VendorTag](), shapeErr(&t, e, "tag has no name")
	}
	if err := skip(&t, e); err != nil {
		return NoMatch[registry.VendorTag](), err
	}
	return Matched(registry.VendorTag{Name: e.attr("name"), Author: e.attr("author"), Contact: e.attr("contact")}, t), nil
}
