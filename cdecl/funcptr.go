package cdecl

import (
	"context"
	"strconv"
	"strings"

	"github.com/andaru/vkregistry/regerr"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// FuncPointer is a decoded function-pointer typedef.
type FuncPointer struct {
	Name   string
	Return Declarator
	Params []Declarator
}

// calling convention macros are not C and confuse the grammar.
var callingConventions = strings.NewReplacer("VKAPI_PTR", "", "VKAPI_CALL", "", "VKAPI_ATTR", "")

// ParseFuncPointer decodes the flattened text of a funcpointer type, e.g.
//
//	typedef void* (VKAPI_PTR *PFN_vkAllocationFunction)(void* pUserData, size_t size);
func ParseFuncPointer(text string) (FuncPointer, error) {
	src := []byte(callingConventions.Replace(text))
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(c.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return FuncPointer{}, errors.Wrap(err, "parse funcpointer")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return FuncPointer{}, fpErr(text, "not a valid C typedef")
	}
	td := firstOfType(root, "type_definition")
	if td == nil {
		return FuncPointer{}, fpErr(text, "no typedef")
	}
	var fp FuncPointer
	fp.Return.Type = typeName(td, src)
	fp.Return.Const[0] = hasConst(td, src)

	decl := td.ChildByFieldName("declarator")
	for decl != nil && decl.Type() == "pointer_declarator" {
		fp.Return.Depth++
		decl = decl.ChildByFieldName("declarator")
	}
	if decl == nil || decl.Type() != "function_declarator" {
		return FuncPointer{}, fpErr(text, "typedef is not a function pointer")
	}
	if inner := decl.ChildByFieldName("declarator"); inner != nil {
		fp.Name = declName(inner, src)
	}
	if fp.Name == "" {
		return FuncPointer{}, fpErr(text, "function pointer has no name")
	}
	if params := decl.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			n := params.NamedChild(i)
			if n.Type() != "parameter_declaration" {
				continue
			}
			pd, ok := paramDecl(n, src)
			if !ok {
				continue
			}
			if pd.Depth > MaxDepth {
				return FuncPointer{}, fpErr(text, "pointer depth exceeds limit in "+pd.Name)
			}
			fp.Params = append(fp.Params, pd)
		}
	}
	glog.V(2).Infof("funcpointer %s: %d params", fp.Name, len(fp.Params))
	return fp, nil
}

// paramDecl returns false for the bare (void) parameter list.
func paramDecl(n *sitter.Node, src []byte) (Declarator, bool) {
	d := Declarator{Type: typeName(n, src)}
	d.Const[0] = hasConst(n, src)
	decl := n.ChildByFieldName("declarator")
	if decl == nil {
		return d, d.Type != "void"
	}
	for decl != nil {
		switch decl.Type() {
		case "pointer_declarator":
			d.Depth++
			if d.Depth <= MaxDepth && hasConst(decl, src) {
				d.Const[d.Depth] = true
			}
			decl = decl.ChildByFieldName("declarator")
		case "array_declarator":
			if size := decl.ChildByFieldName("size"); size != nil {
				d.Dim = arrayDim(d.Dim, size, src)
			}
			decl = decl.ChildByFieldName("declarator")
		default:
			d.Name = declName(decl, src)
			decl = nil
		}
	}
	return d, true
}

// arrayDim adds the size of one array_declarator to dim. Declarators
// nest outermost first, so literal sizes are prepended.
func arrayDim(dim Dimension, size *sitter.Node, src []byte) Dimension {
	text := size.Content(src)
	if size.Type() == "number_literal" {
		if n, err := strconv.Atoi(text); err == nil && dim.Kind != DimConstant {
			return Dimension{Kind: DimLiteral, Sizes: append([]int{n}, dim.Sizes...)}
		}
	}
	return Dimension{Kind: DimConstant, Constant: text}
}

func typeName(n *sitter.Node, src []byte) string {
	t := n.ChildByFieldName("type")
	if t == nil {
		return ""
	}
	if t.Type() == "struct_specifier" {
		if name := t.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
	}
	return t.Content(src)
}

func hasConst(n *sitter.Node, src []byte) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch.Type() == "type_qualifier" && ch.Content(src) == "const" {
			return true
		}
	}
	return false
}

func declName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "identifier", "type_identifier", "field_identifier":
		return n.Content(src)
	}
	if d := n.ChildByFieldName("declarator"); d != nil {
		return declName(d, src)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if name := declName(n.NamedChild(i), src); name != "" {
			return name
		}
	}
	return ""
}

func firstOfType(n *sitter.Node, typ string) *sitter.Node {
	if n.Type() == typ {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := firstOfType(n.NamedChild(i), typ); found != nil {
			return found
		}
	}
	return nil
}

func fpErr(text, msg string) error {
	return errors.WithStack(regerr.ShapeMismatch("type",
		regerr.WithAttribute("category=funcpointer"),
		regerr.WithEntity(strings.TrimSpace(text)),
		regerr.WithMessage(msg)))
}
