package cdecl

import (
	"testing"

	"github.com/andaru/vkregistry/regerr"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		name       string
		frag       Fragments
		multiLevel bool
		want       Declarator
		wantErr    string
	}{
		{
			name: "plain value",
			frag: Fragments{Type: "uint32_t", Name: "count"},
			want: Declarator{Type: "uint32_t", Name: "count"},
		},
		{
			name: "const pointer to type",
			frag: Fragments{Leading: "const ", Type: "T", Trailing: "* ", Name: "name"},
			want: Declarator{Type: "T", Name: "name", Depth: 1, Const: [3]bool{true, false, false}},
		},
		{
			name:       "const at both levels",
			frag:       Fragments{Leading: "const ", Type: "T", Trailing: "* const* ", Name: "name"},
			multiLevel: true,
			want:       Declarator{Type: "T", Name: "name", Depth: 2, Const: [3]bool{true, true, false}},
		},
		{
			name:       "void double pointer",
			frag:       Fragments{Type: "void", Trailing: "** ", Name: "ppData"},
			multiLevel: true,
			want:       Declarator{Type: "void", Name: "ppData", Depth: 2},
		},
		{
			name:    "double pointer without multi-level",
			frag:    Fragments{Type: "void", Trailing: "**", Name: "ppData"},
			wantErr: "shape-mismatch error element:declarator entity:ppData multi-level pointer not allowed here",
		},
		{
			name:       "triple pointer",
			frag:       Fragments{Type: "void", Trailing: "***", Name: "p"},
			multiLevel: true,
			wantErr:    "shape-mismatch error element:declarator entity:p pointer depth exceeds 2",
		},
		{
			name: "struct keyword",
			frag: Fragments{Leading: "struct ", Type: "VkBaseOutStructure", Trailing: "* ", Name: "pNext"},
			want: Declarator{Type: "VkBaseOutStructure", Name: "pNext", Depth: 1, Struct: true},
		},
		{
			name: "literal array",
			frag: Fragments{Type: "float", Name: "matrix", Suffix: "[3][4]"},
			want: Declarator{Type: "float", Name: "matrix", Dim: Dimension{Kind: DimLiteral, Sizes: []int{3, 4}}},
		},
		{
			name: "named constant array",
			frag: Fragments{Type: "uint8_t", Name: "pipelineCacheUUID", Suffix: "[]", Bound: "VK_UUID_SIZE"},
			want: Declarator{Type: "uint8_t", Name: "pipelineCacheUUID", Dim: Dimension{Kind: DimConstant, Constant: "VK_UUID_SIZE"}},
		},
		{
			name: "bitfield",
			frag: Fragments{Type: "uint32_t", Name: "instanceCustomIndex", Suffix: ":24"},
			want: Declarator{Type: "uint32_t", Name: "instanceCustomIndex", BitWidth: 24},
		},
		{
			name:    "bad leading word",
			frag:    Fragments{Leading: "volatile ", Type: "int", Name: "x"},
			wantErr: `shape-mismatch error element:declarator entity:x unexpected "volatile" before type`,
		},
		{
			name:    "empty brackets",
			frag:    Fragments{Type: "int", Name: "x", Suffix: "[]"},
			wantErr: `shape-mismatch error element:declarator entity:x bad array dimension "[]"`,
		},
		{
			name:    "missing type",
			frag:    Fragments{Name: "x"},
			wantErr: "shape-mismatch error element:declarator entity:x missing type",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			check := assert.New(t)
			got, err := Parse(tc.frag, tc.multiLevel)
			if tc.wantErr != "" {
				check.EqualError(err, tc.wantErr)
				e, ok := regerr.As(err)
				if check.True(ok) {
					check.Equal(regerr.KindShapeMismatch, e.Kind)
				}
				return
			}
			check.NoError(err)
			check.Equal(tc.want, got)
		})
	}
}

func TestDeclaratorConstant(t *testing.T) {
	d, err := Parse(Fragments{Leading: "const", Type: "char", Trailing: "*", Name: "pName"}, false)
	assert.NoError(t, err)
	assert.True(t, d.Constant())
	assert.Equal(t, 1, d.Depth)
}
