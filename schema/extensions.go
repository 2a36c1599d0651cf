package schema

import (
	"strconv"
	"strings"

	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/golang/glog"
)

const (
	specVersionSuffix = "_SPEC_VERSION"
	nameStringSuffix  = "_EXTENSION_NAME"
)

// TryParseExtension parses an <extension>. Extensions not supported
// for the configured API, including disabled ones, and extensions
// without an instance or device type are not matched.
func TryParseExtension(t xmltok.Tokenizer, cfg *Config) (Result[registry.Extension], error) {
	cfg = resolved(cfg)
	name, attrs, ok := lookahead(t)
	if !ok || name != "extension" {
		return NoMatch[registry.Extension](), nil
	}
	extName, _ := xmltok.Lookup(attrs, "name")
	if !cfg.selects(attrs, "supported") {
		glog.V(1).Infof("extension %s: not supported for %s", extName, cfg.API)
		return NoMatch[registry.Extension](), nil
	}
	var scope registry.Scope
	switch typ, _ := xmltok.Lookup(attrs, "type"); typ {
	case "instance":
		scope = registry.ScopeInstance
	case "device":
		scope = registry.ScopeDevice
	default:
		glog.V(1).Infof("extension %s: no scope", extName)
		return NoMatch[registry.Extension](), nil
	}

	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.Extension](), err
	}
	ext := registry.Extension{
		Name:         extName,
		Scope:        scope,
		Author:       e.attr("author"),
		Contact:      e.attr("contact"),
		Platform:     e.attr("platform"),
		Supported:    e.list("supported"),
		Ratified:     e.list("ratified"),
		Depends:      e.attr("depends"),
		PromotedTo:   e.attr("promotedto"),
		DeprecatedBy: e.attr("deprecatedby"),
		ObsoletedBy:  e.attr("obsoletedby"),
		Provisional:  e.flag("provisional"),
		SpecialUse:   e.list("specialuse"),
	}
	if ext.Number, err = strconv.Atoi(e.attr("number")); err != nil || ext.Number < 1 {
		return NoMatch[registry.Extension](), shapeErr(&t, e, "bad extension number "+strconv.Quote(e.attr("number")))
	}
	ext.Requires, err = requirements(&t, e, cfg)
	if err != nil {
		return NoMatch[registry.Extension](), err
	}
	for _, req := range ext.Requires {
		for _, item := range req.Items {
			if item.Kind != registry.ItemEnum || item.Enum.Form != registry.ContribConstant {
				continue
			}
			switch {
			case strings.HasSuffix(item.Name, specVersionSuffix):
				v, err := strconv.Atoi(item.Enum.Literal)
				if err != nil {
					return NoMatch[registry.Extension](), malformed(item.Name, item.Enum.Literal, err)
				}
				ext.SpecVersion = v
			case strings.HasSuffix(item.Name, nameStringSuffix):
				ext.NameString = strings.Trim(xmltok.Unescape(item.Enum.Literal), `"`)
			}
		}
	}
	return Matched(ext, t), nil
}

// requirements reads the <require> blocks of an extension or feature.
// Blocks for another API are skipped, as are <remove> blocks.
func requirements(t *xmltok.Tokenizer, e element, cfg *Config) ([]registry.Requirement, error) {
	var reqs []registry.Requirement
	err := children(t, e, nil, func(c element) error {
		if c.name != "require" || !cfg.selects(c.attrs, "api") {
			return skip(t, c)
		}
		req := registry.Requirement{Depends: c.attr("depends"), API: c.attr("api"), Comment: c.attr("comment")}
		err := children(t, c, nil, func(item element) error {
			if !cfg.selects(item.attrs, "api") {
				return skip(t, item)
			}
			ri, ok, err := requireItem(item)
			if err != nil {
				return err
			}
			if ok {
				req.Items = append(req.Items, ri)
			}
			return skip(t, item)
		})
		if err != nil {
			return err
		}
		reqs = append(reqs, req)
		return nil
	})
	return reqs, err
}

func requireItem(c element) (registry.RequireItem, bool, error) {
	item := registry.RequireItem{Name: c.attr("name")}
	switch c.name {
	case "type":
		item.Kind = registry.ItemType
	case "command":
		item.Kind = registry.ItemCommand
	case "feature":
		item.Kind, item.Struct = registry.ItemFeature, c.attr("struct")
	case "enum":
		ec, err := contribution(c)
		if err != nil {
			return item, false, err
		}
		item.Kind, item.Enum = registry.ItemEnum, &ec
	default:
		return item, false, nil
	}
	if item.Name == "" {
		return item, false, shapeErrNoTok(c, "requirement has no name")
	}
	return item, true, nil
}

// contribution decodes a required <enum>.
func contribution(c element) (registry.EnumContribution, error) {
	ec := registry.EnumContribution{
		Name:     c.attr("name"),
		Extends:  c.attr("extends"),
		Negative: c.attr("dir") == "-",
	}
	var err error
	if n := c.attr("extnumber"); n != "" {
		if ec.ExtNumber, err = strconv.Atoi(n); err != nil || ec.ExtNumber < 1 {
			return ec, malformed(ec.Name, n, err)
		}
	}
	switch {
	case c.has("alias"):
		ec.Form, ec.Alias = registry.ContribAlias, c.attr("alias")
	case ec.Extends == "" && c.has("value"):
		ec.Form, ec.Literal = registry.ContribConstant, c.attr("value")
	case ec.Extends == "":
		ec.Form = registry.ContribReference
	case c.has("offset"):
		lit := c.attr("offset")
		if ec.Offset, err = parseInteger(lit); err != nil || ec.Offset < 0 {
			return ec, malformed(ec.Name, lit, err)
		}
		ec.Form = registry.ContribOffset
	case c.has("bitpos"):
		lit := c.attr("bitpos")
		if ec.Bit, err = strconv.Atoi(lit); err != nil || ec.Bit < 0 || ec.Bit > 63 {
			return ec, malformed(ec.Name, lit, err)
		}
		ec.Form = registry.ContribBitPos
	case c.has("value"):
		lit := c.attr("value")
		if ec.Value, err = parseInteger(lit); err != nil {
			return ec, malformed(ec.Name, lit, err)
		}
		ec.Form = registry.ContribValue
	default:
		return ec, shapeErrNoTok(c, "enum extends "+ec.Extends+" without a value")
	}
	return ec, nil
}
