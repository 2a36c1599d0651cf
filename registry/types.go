package registry

import (
	"fmt"

	"github.com/andaru/vkregistry/cdecl"
)

// NullHandle is the reserved null value of every handle.
const NullHandle uint64 = 0

// BaseKind classifies a BaseType.
type BaseKind uint8

const (
	// BasePrimitive is a typedef of a C scalar, e.g. VkFlags.
	BasePrimitive BaseKind = iota
	// BaseOpaquePointer is a typedef of a pointer, e.g. ANativeWindow*.
	BaseOpaquePointer
	// BaseOpaqueStruct is a struct forward declaration.
	BaseOpaqueStruct
	// BaseExternal is a type defined by a platform or C header.
	BaseExternal
)

func (k BaseKind) String() string {
	switch k {
	case BasePrimitive:
		return "primitive"
	case BaseOpaquePointer:
		return "opaque-pointer"
	case BaseOpaqueStruct:
		return "opaque-struct"
	case BaseExternal:
		return "external"
	}
	return fmt.Sprintf("BaseKind(%d)", int(k))
}

// BaseType is a basetype or an external type.
type BaseType struct {
	Name string
	Kind BaseKind
	// Underlying is the C type of a BasePrimitive.
	Underlying string
	// Requires names the header providing a BaseExternal.
	Requires string
}

// Handle is an opaque object handle.
type Handle struct {
	Name         string
	Alias        string
	Parent       string
	ObjTypeEnum  string
	Dispatchable bool
}

// EnumType is the type declaration of an enumerated or flag-bits group.
type EnumType struct {
	Name  string
	Alias string
}

// Bitmask is a flags type. Bits names the value group holding its
// symbolic values; standalone bitmasks leave it empty.
type Bitmask struct {
	Name  string
	Alias string
	Bits  string
	Width int
}

// Member is a struct or union member.
type Member struct {
	cdecl.Declarator
	Len            []cdecl.LenToken
	AltLen         string
	Optional       []bool
	Selector       string
	Selection      []string
	Values         string
	ExternSync     string
	LimitType      string
	NoAutoValidity bool
}

// Struct is a struct or, when Union is set, a union type.
type Struct struct {
	Name           string
	Alias          string
	Union          bool
	Members        []Member
	ReturnedOnly   bool
	AllowDuplicate bool
	StructExtends  []string
}

// Member returns the named member.
func (s *Struct) Member(name string) (Member, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// SType returns the fixed structure type value of s, if any.
func (s *Struct) SType() string {
	if m, ok := s.Member("sType"); ok {
		return m.Values
	}
	return ""
}

// FuncPointer is a function-pointer typedef.
type FuncPointer = cdecl.FuncPointer

// GroupKind distinguishes enumerated groups from flag-bits groups.
type GroupKind uint8

const (
	GroupEnum GroupKind = iota
	GroupBitmask
)

func (k GroupKind) String() string {
	if k == GroupBitmask {
		return "bitmask"
	}
	return "enum"
}

// ItemForm is the one form a ValueItem takes.
type ItemForm uint8

const (
	FormValue ItemForm = iota
	FormBitPos
	FormAlias
)

// ValueItem is one entry of a ValueGroup, carrying exactly one of an
// explicit value, a bit position or an alias target.
type ValueItem struct {
	Name       string
	Form       ItemForm
	Value      int64
	Bit        int
	Alias      string
	Deprecated string
}

// ValueGroup is an <enums> block of type enum or bitmask.
type ValueGroup struct {
	Name     string
	Kind     GroupKind
	BitWidth int
	Items    []ValueItem
}

// ConstKind is the scalar type of an API constant.
type ConstKind uint8

const (
	ConstUint32 ConstKind = iota
	ConstUint64
	ConstInt32
	ConstFloat32
	ConstAlias
)

func (k ConstKind) String() string {
	switch k {
	case ConstUint32:
		return "uint32_t"
	case ConstUint64:
		return "uint64_t"
	case ConstInt32:
		return "int32_t"
	case ConstFloat32:
		return "float"
	case ConstAlias:
		return "alias"
	}
	return fmt.Sprintf("ConstKind(%d)", int(k))
}

// Constant is a typed API constant. Int holds integer kinds (two's
// complement for int32_t), Float holds ConstFloat32.
type Constant struct {
	Name    string
	Kind    ConstKind
	Int     uint64
	Float   float32
	Alias   string
	Literal string
}

// ConstantGroup is an <enums> block without a type.
type ConstantGroup struct {
	Name      string
	Constants []Constant
}

// Param is a command parameter.
type Param struct {
	cdecl.Declarator
	Len            []cdecl.LenToken
	AltLen         string
	Optional       []bool
	ValidStructs   []string
	ExternSync     string
	NoAutoValidity bool
}

// CommandMeta is carried opaquely for consumers of the registry.
type CommandMeta struct {
	Queues             []string
	SuccessCodes       []string
	ErrorCodes         []string
	RenderPass         string
	VideoCoding        string
	CmdBufferLevel     []string
	Tasks              []string
	AllowNoQueues      bool
	ImplicitExternSync []string
}

// Command is an API entry point.
type Command struct {
	Name   string
	Alias  string
	Return string
	Params []Param
	Meta   CommandMeta
}

// Scope is the applicability of an extension.
type Scope uint8

const (
	ScopeInstance Scope = iota
	ScopeDevice
)

func (s Scope) String() string {
	if s == ScopeDevice {
		return "device"
	}
	return "instance"
}

// ContribForm is the form of an enum contribution.
type ContribForm uint8

const (
	// ContribValue is an explicit value.
	ContribValue ContribForm = iota
	// ContribBitPos is a bit position.
	ContribBitPos
	// ContribOffset is an offset from the extension number base.
	ContribOffset
	// ContribAlias renames another item of the same group.
	ContribAlias
	// ContribConstant defines an extension constant outside any group.
	ContribConstant
	// ContribReference names an existing enum without contributing.
	ContribReference
)

func (f ContribForm) String() string {
	switch f {
	case ContribValue:
		return "value"
	case ContribBitPos:
		return "bitpos"
	case ContribOffset:
		return "offset"
	case ContribAlias:
		return "alias"
	case ContribConstant:
		return "constant"
	case ContribReference:
		return "reference"
	}
	return fmt.Sprintf("ContribForm(%d)", int(f))
}

// EnumContribution is an <enum> inside a <require> block.
type EnumContribution struct {
	Name    string
	Extends string
	Form    ContribForm
	Value   int64
	Bit     int
	Offset  int64
	// ExtNumber overrides the owning extension's number; 0 when absent.
	ExtNumber int
	Negative  bool
	Alias     string
	// Literal is the raw value of a ContribConstant.
	Literal string
}

// ItemKind is the kind of a RequireItem.
type ItemKind uint8

const (
	ItemEnum ItemKind = iota
	ItemType
	ItemCommand
	ItemFeature
)

func (k ItemKind) String() string {
	switch k {
	case ItemEnum:
		return "enum"
	case ItemType:
		return "type"
	case ItemCommand:
		return "command"
	case ItemFeature:
		return "feature"
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// RequireItem is one child of a <require> block. Enum is set for
// ItemEnum; Struct is set for ItemFeature.
type RequireItem struct {
	Kind   ItemKind
	Name   string
	Enum   *EnumContribution
	Struct string
}

// Requirement is a <require> block.
type Requirement struct {
	Depends string
	API     string
	Comment string
	Items   []RequireItem
}

// Extension is a supported extension.
type Extension struct {
	Name         string
	Number       int
	Scope        Scope
	Author       string
	Contact      string
	Platform     string
	Supported    []string
	Ratified     []string
	Depends      string
	PromotedTo   string
	DeprecatedBy string
	ObsoletedBy  string
	Provisional  bool
	SpecialUse   []string
	SpecVersion  int
	NameString   string
	Requires     []Requirement
}

// Feature is a core API version block.
type Feature struct {
	Name     string
	API      []string
	Number   string
	Depends  string
	Requires []Requirement
}

// RuleKind distinguishes SPIR-V extension rules from capability rules.
type RuleKind uint8

const (
	RuleExtension RuleKind = iota
	RuleCapability
)

func (k RuleKind) String() string {
	if k == RuleCapability {
		return "capability"
	}
	return "extension"
}

// EnableKind is the kind of an Enable condition.
type EnableKind uint8

const (
	EnableVersion EnableKind = iota
	EnableExtension
	EnableStruct
	EnableProperty
)

func (k EnableKind) String() string {
	switch k {
	case EnableVersion:
		return "version"
	case EnableExtension:
		return "extension"
	case EnableStruct:
		return "struct"
	case EnableProperty:
		return "property"
	}
	return fmt.Sprintf("EnableKind(%d)", int(k))
}

// Enable is one condition under which a capability is enabled.
type Enable struct {
	Kind      EnableKind
	Version   string
	Extension string
	Struct    string
	Feature   string
	Property  string
	Member    string
	Value     string
	Requires  []string
	Alias     string
}

// CapabilityRule is a <spirvextension> or <spirvcapability>.
type CapabilityRule struct {
	Kind    RuleKind
	Name    string
	Enables []Enable
}

// Platform is a window-system platform and its protecting macro.
type Platform struct {
	Name    string
	Protect string
	Comment string
}

// VendorTag is a registered author tag.
type VendorTag struct {
	Name    string
	Author  string
	Contact string
}

// Source is the unresolved output of a registry parse, in document
// order. Text is the document every string field was sliced from.
type Source struct {
	Text         string
	BaseTypes    []BaseType
	Handles      []Handle
	EnumTypes    []EnumType
	Bitmasks     []Bitmask
	Structs      []Struct
	FuncPointers []FuncPointer
	Groups       []ValueGroup
	Constants    []ConstantGroup
	Commands     []Command
	Extensions   []Extension
	Features     []Feature
	Rules        []CapabilityRule
	Platforms    []Platform
	Tags         []VendorTag
}
