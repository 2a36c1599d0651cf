package registry

import (
	"strings"

	"github.com/andaru/vkregistry/regerr"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// maxAliasHops bounds alias chain resolution so that malformed,
// self-referential chains terminate.
const maxAliasHops = 32

// deviceHandle is the root of the device-level dispatchable handles.
const deviceHandle = "VkDevice"

// Registry is the indexed, immutable registry model.
type Registry struct {
	src Source

	baseTypes    map[string]*BaseType
	handles      map[string]*Handle
	enumTypes    map[string]*EnumType
	bitmasks     map[string]*Bitmask
	structs      map[string]*Struct
	unions       map[string]*Struct
	funcPointers map[string]*FuncPointer
	valueGroups  map[string]*ValueGroup
	constants    map[string]*Constant
	commands     map[string]*Command
	extensions   map[string]*Extension
	features     map[string]*Feature
	rules        map[string]*CapabilityRule
	platforms    map[string]*Platform
	tags         map[string]*VendorTag

	groups      []*ResolvedGroup
	groupByName map[string]*ResolvedGroup

	extUnlocks     map[string][]*Extension
	featureUnlocks map[string][]*Feature
	dispatch       map[string]Dispatch
	layouts        map[string][]Span
}

// Option configures a Registry built by New.
type Option func(*Registry)

// WithDispatch sets per-command dispatch overrides for entry points
// whose first parameter does not identify their dispatch level.
func WithDispatch(overrides map[string]Dispatch) Option {
	return func(r *Registry) {
		for name, d := range overrides {
			r.dispatch[name] = d
		}
	}
}

// WithLayouts sets the bit layouts of the canonical bitmask types,
// keyed by type name.
func WithLayouts(layouts map[string][]Span) Option {
	return func(r *Registry) {
		for name, l := range layouts {
			r.layouts[name] = l
		}
	}
}

// New indexes src and the resolved groups. Names must be unique within
// each category.
func New(src Source, groups []ResolvedGroup, opts ...Option) (*Registry, error) {
	r := &Registry{
		src:            src,
		baseTypes:      map[string]*BaseType{},
		handles:        map[string]*Handle{},
		enumTypes:      map[string]*EnumType{},
		bitmasks:       map[string]*Bitmask{},
		structs:        map[string]*Struct{},
		unions:         map[string]*Struct{},
		funcPointers:   map[string]*FuncPointer{},
		valueGroups:    map[string]*ValueGroup{},
		constants:      map[string]*Constant{},
		commands:       map[string]*Command{},
		extensions:     map[string]*Extension{},
		features:       map[string]*Feature{},
		rules:          map[string]*CapabilityRule{},
		platforms:      map[string]*Platform{},
		tags:           map[string]*VendorTag{},
		groupByName:    map[string]*ResolvedGroup{},
		extUnlocks:     map[string][]*Extension{},
		featureUnlocks: map[string][]*Feature{},
		dispatch:       map[string]Dispatch{},
		layouts:        map[string][]Span{},
	}
	for _, opt := range opts {
		opt(r)
	}

	s := &r.src
	var err error
	for i := range s.BaseTypes {
		err = firstErr(err, index(r.baseTypes, "type", s.BaseTypes[i].Name, &s.BaseTypes[i]))
	}
	for i := range s.Handles {
		err = firstErr(err, index(r.handles, "type", s.Handles[i].Name, &s.Handles[i]))
	}
	for i := range s.EnumTypes {
		err = firstErr(err, index(r.enumTypes, "type", s.EnumTypes[i].Name, &s.EnumTypes[i]))
	}
	for i := range s.Bitmasks {
		err = firstErr(err, index(r.bitmasks, "type", s.Bitmasks[i].Name, &s.Bitmasks[i]))
	}
	for i := range s.Structs {
		st := &s.Structs[i]
		if st.Union {
			err = firstErr(err, index(r.unions, "type", st.Name, st))
		} else {
			err = firstErr(err, index(r.structs, "type", st.Name, st))
		}
	}
	for i := range s.FuncPointers {
		err = firstErr(err, index(r.funcPointers, "type", s.FuncPointers[i].Name, &s.FuncPointers[i]))
	}
	for i := range s.Groups {
		err = firstErr(err, index(r.valueGroups, "enums", s.Groups[i].Name, &s.Groups[i]))
	}
	for i := range s.Constants {
		cs := s.Constants[i].Constants
		for j := range cs {
			err = firstErr(err, index(r.constants, "enum", cs[j].Name, &cs[j]))
		}
	}
	for i := range s.Commands {
		err = firstErr(err, index(r.commands, "command", s.Commands[i].Name, &s.Commands[i]))
	}
	for i := range s.Extensions {
		ext := &s.Extensions[i]
		err = firstErr(err, index(r.extensions, "extension", ext.Name, ext))
		for _, name := range unlocked(ext.Requires) {
			r.extUnlocks[name] = append(r.extUnlocks[name], ext)
		}
	}
	for i := range s.Features {
		f := &s.Features[i]
		err = firstErr(err, index(r.features, "feature", f.Name, f))
		for _, name := range unlocked(f.Requires) {
			r.featureUnlocks[name] = append(r.featureUnlocks[name], f)
		}
	}
	for i := range s.Rules {
		err = firstErr(err, index(r.rules, "spirv", s.Rules[i].Name, &s.Rules[i]))
	}
	for i := range s.Platforms {
		err = firstErr(err, index(r.platforms, "platform", s.Platforms[i].Name, &s.Platforms[i]))
	}
	for i := range s.Tags {
		err = firstErr(err, index(r.tags, "tag", s.Tags[i].Name, &s.Tags[i]))
	}
	for i := range groups {
		g := &groups[i]
		err = firstErr(err, index(r.groupByName, "enums", g.Name, g))
		r.groups = append(r.groups, g)
	}
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("registry: %d structs, %d commands, %d extensions, %d groups",
		len(r.structs), len(r.commands), len(r.extensions), len(r.groups))
	return r, nil
}

func index[T any](m map[string]*T, element, name string, v *T) error {
	if _, ok := m[name]; ok {
		return errors.WithStack(regerr.ShapeMismatch(element,
			regerr.WithEntity(name), regerr.WithMessage("duplicate name")))
	}
	m[name] = v
	return nil
}

func firstErr(err, next error) error {
	if err != nil {
		return err
	}
	return next
}

// unlocked returns the type and command names a set of requirement
// blocks unlock, each name once.
func unlocked(reqs []Requirement) []string {
	var names []string
	seen := map[string]bool{}
	for _, req := range reqs {
		for _, item := range req.Items {
			if item.Kind != ItemType && item.Kind != ItemCommand {
				continue
			}
			if !seen[item.Name] {
				seen[item.Name] = true
				names = append(names, item.Name)
			}
		}
	}
	return names
}

// follow resolves name through the alias chain in m. It returns nil if
// a name along the chain is missing or the chain does not end within
// maxAliasHops.
func follow[T any](m map[string]*T, name string, alias func(*T) string) *T {
	for hops := 0; hops <= maxAliasHops; hops++ {
		v, ok := m[name]
		if !ok {
			return nil
		}
		next := alias(v)
		if next == "" {
			return v
		}
		name = next
	}
	glog.V(1).Infof("alias chain from %s does not terminate", name)
	return nil
}

// Source returns the parse output the registry was built from.
func (r *Registry) Source() *Source { return &r.src }

func (r *Registry) BaseType(name string) *BaseType       { return r.baseTypes[name] }
func (r *Registry) Handle(name string) *Handle           { return r.handles[name] }
func (r *Registry) EnumType(name string) *EnumType       { return r.enumTypes[name] }
func (r *Registry) Bitmask(name string) *Bitmask         { return r.bitmasks[name] }
func (r *Registry) Struct(name string) *Struct           { return r.structs[name] }
func (r *Registry) Union(name string) *Struct            { return r.unions[name] }
func (r *Registry) FuncPointer(name string) *FuncPointer { return r.funcPointers[name] }
func (r *Registry) ValueGroup(name string) *ValueGroup   { return r.valueGroups[name] }
func (r *Registry) Constant(name string) *Constant       { return r.constants[name] }
func (r *Registry) Command(name string) *Command         { return r.commands[name] }
func (r *Registry) Extension(name string) *Extension     { return r.extensions[name] }
func (r *Registry) Feature(name string) *Feature         { return r.features[name] }
func (r *Registry) Rule(name string) *CapabilityRule     { return r.rules[name] }
func (r *Registry) Platform(name string) *Platform       { return r.platforms[name] }
func (r *Registry) Tag(name string) *VendorTag           { return r.tags[name] }

// Group returns the resolved value group called name.
func (r *Registry) Group(name string) *ResolvedGroup     { return r.groupByName[name] }

// Groups returns every resolved group in document order.
func (r *Registry) Groups() []*ResolvedGroup { return r.groups }

// ResolveStruct returns the canonical struct for name.
func (r *Registry) ResolveStruct(name string) *Struct {
	return follow(r.structs, name, func(s *Struct) string { return s.Alias })
}

// ResolveUnion returns the canonical union for name.
func (r *Registry) ResolveUnion(name string) *Struct {
	return follow(r.unions, name, func(s *Struct) string { return s.Alias })
}

// ResolveHandle returns the canonical handle for name.
func (r *Registry) ResolveHandle(name string) *Handle {
	return follow(r.handles, name, func(h *Handle) string { return h.Alias })
}

// ResolveCommand returns the canonical command for name.
func (r *Registry) ResolveCommand(name string) *Command {
	return follow(r.commands, name, func(c *Command) string { return c.Alias })
}

// ResolveBitmask returns the canonical bitmask type for name.
func (r *Registry) ResolveBitmask(name string) *Bitmask {
	return follow(r.bitmasks, name, func(b *Bitmask) string { return b.Alias })
}

// BitmaskLayout returns the bit layout of the bitmask type name,
// following aliases. A flags type without named bits is a single
// padding span.
func (r *Registry) BitmaskLayout(name string) []Span {
	if b := r.ResolveBitmask(name); b != nil {
		return r.layouts[b.Name]
	}
	return nil
}

// ResolveEnum returns the resolved value group of the enum type name,
// following enum type aliases.
func (r *Registry) ResolveEnum(name string) *ResolvedGroup {
	if et := follow(r.enumTypes, name, func(e *EnumType) string { return e.Alias }); et != nil {
		return r.groupByName[et.Name]
	}
	return r.groupByName[name]
}

// ExtensionsUnlocking returns the extensions requiring the type or
// command name, in document order.
func (r *Registry) ExtensionsUnlocking(name string) []*Extension { return r.extUnlocks[name] }

// FeaturesUnlocking returns the core versions requiring the type or
// command name, in document order.
func (r *Registry) FeaturesUnlocking(name string) []*Feature { return r.featureUnlocks[name] }

// Extensions returns all extensions in document order.
func (r *Registry) Extensions() []*Extension { return r.scoped(func(*Extension) bool { return true }) }

// InstanceExtensions returns the instance extensions in document order.
func (r *Registry) InstanceExtensions() []*Extension {
	return r.scoped(func(e *Extension) bool { return e.Scope == ScopeInstance })
}

// DeviceExtensions returns the device extensions in document order.
func (r *Registry) DeviceExtensions() []*Extension {
	return r.scoped(func(e *Extension) bool { return e.Scope == ScopeDevice })
}

func (r *Registry) scoped(keep func(*Extension) bool) []*Extension {
	var out []*Extension
	for i := range r.src.Extensions {
		if ext := &r.src.Extensions[i]; keep(ext) {
			out = append(out, ext)
		}
	}
	return out
}

// Commands returns all commands, aliases included, in document order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.src.Commands))
	for i := range r.src.Commands {
		out[i] = &r.src.Commands[i]
	}
	return out
}

// Structs returns all structs and unions in document order.
func (r *Registry) Structs() []*Struct {
	out := make([]*Struct, len(r.src.Structs))
	for i := range r.src.Structs {
		out[i] = &r.src.Structs[i]
	}
	return out
}

// CommandDispatch reports how the command name is dispatched. An
// override for the name or its canonical command wins; otherwise a
// command whose first parameter is a dispatchable handle descending
// from VkDevice is device level, any other dispatchable handle makes it
// instance level, and everything else is global. It returns false if no
// such command exists.
func (r *Registry) CommandDispatch(name string) (Dispatch, bool) {
	if d, ok := r.dispatch[name]; ok {
		return d, true
	}
	cmd := r.ResolveCommand(name)
	if cmd == nil {
		return DispatchGlobal, false
	}
	if d, ok := r.dispatch[cmd.Name]; ok {
		return d, true
	}
	if len(cmd.Params) == 0 {
		return DispatchGlobal, true
	}
	h := r.ResolveHandle(cmd.Params[0].Type)
	if h == nil || !h.Dispatchable {
		return DispatchGlobal, true
	}
	for hops := 0; h != nil && hops <= maxAliasHops; hops++ {
		if h.Name == deviceHandle {
			return DispatchDevice, true
		}
		parent, _, _ := strings.Cut(h.Parent, ",")
		if parent == "" {
			break
		}
		h = r.ResolveHandle(parent)
	}
	return DispatchInstance, true
}
