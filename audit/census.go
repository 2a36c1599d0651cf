package audit

import (
	"bytes"
	"sort"
	"strings"

	"github.com/andaru/vkregistry/registry"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

// Category is a kind of named registry entity.
type Category string

const (
	CategoryStruct    Category = "struct"
	CategoryUnion     Category = "union"
	CategoryHandle    Category = "handle"
	CategoryCommand   Category = "command"
	CategoryGroup     Category = "enums"
	CategoryExtension Category = "extension"
	CategoryFeature   Category = "feature"
	CategoryRule      Category = "spirv"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryStruct, CategoryUnion, CategoryHandle, CategoryCommand,
	CategoryGroup, CategoryExtension, CategoryFeature, CategoryRule,
}

var (
	xpStructs    = xpath.MustCompile(`/registry/types/type[@category='struct']`)
	xpUnions     = xpath.MustCompile(`/registry/types/type[@category='union']`)
	xpHandles    = xpath.MustCompile(`/registry/types/type[@category='handle']`)
	xpCommands   = xpath.MustCompile(`/registry/commands/command`)
	xpGroups     = xpath.MustCompile(`/registry/enums[@type='enum' or @type='bitmask']`)
	xpExtensions = xpath.MustCompile(`/registry/extensions/extension[@type='instance' or @type='device']`)
	xpFeatures   = xpath.MustCompile(`/registry/feature`)
	xpRules      = xpath.MustCompile(`/registry/spirvextensions/spirvextension | /registry/spirvcapabilities/spirvcapability`)
)

var queries = map[Category]*xpath.Expr{
	CategoryStruct:    xpStructs,
	CategoryUnion:     xpUnions,
	CategoryHandle:    xpHandles,
	CategoryCommand:   xpCommands,
	CategoryGroup:     xpGroups,
	CategoryExtension: xpExtensions,
	CategoryFeature:   xpFeatures,
	CategoryRule:      xpRules,
}

// Census holds the sorted entity names of each category.
type Census map[Category][]string

// Take reads doc and returns the census of the entities selected for
// api.
func Take(doc []byte, api string) (Census, error) {
	root, err := xmlquery.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, errors.Wrap(err, "audit parse")
	}
	c := Census{}
	for _, cat := range Categories {
		seen := map[string]bool{}
		for _, n := range xmlquery.QuerySelectorAll(root, queries[cat]) {
			attr := "api"
			if cat == CategoryExtension {
				attr = "supported"
			}
			if !selects(n, attr, api) {
				continue
			}
			if name := entityName(n); name != "" && !seen[name] {
				seen[name] = true
				c[cat] = append(c[cat], name)
			}
		}
		sort.Strings(c[cat])
	}
	return c, nil
}

func selects(n *xmlquery.Node, attr, api string) bool {
	v := n.SelectAttr(attr)
	if v == "" {
		return true
	}
	for _, s := range strings.Split(v, ",") {
		if s == api {
			return true
		}
	}
	return false
}

// entityName returns the name attribute of n or, for handles and
// commands, the text of the nested <name>.
func entityName(n *xmlquery.Node) string {
	if name := n.SelectAttr("name"); name != "" {
		return name
	}
	for _, path := range []string{"name", "proto/name"} {
		if c := xmlquery.FindOne(n, path); c != nil {
			return strings.TrimSpace(c.InnerText())
		}
	}
	return ""
}

// Finding is an entity of the document missing from the Registry.
type Finding struct {
	Category Category
	Name     string
}

func (f Finding) String() string { return string(f.Category) + " " + f.Name }

// Compare returns the names of c that reg does not hold, by category in
// report order.
func Compare(c Census, reg *registry.Registry) []Finding {
	var out []Finding
	for _, cat := range Categories {
		for _, name := range c[cat] {
			if !holds(reg, cat, name) {
				out = append(out, Finding{Category: cat, Name: name})
			}
		}
	}
	return out
}

func holds(reg *registry.Registry, cat Category, name string) bool {
	switch cat {
	case CategoryStruct:
		return reg.Struct(name) != nil
	case CategoryUnion:
		return reg.Union(name) != nil
	case CategoryHandle:
		return reg.Handle(name) != nil
	case CategoryCommand:
		return reg.Command(name) != nil
	case CategoryGroup:
		return reg.Group(name) != nil
	case CategoryExtension:
		return reg.Extension(name) != nil
	case CategoryFeature:
		return reg.Feature(name) != nil
	case CategoryRule:
		return reg.Rule(name) != nil
	}
	return false
}
