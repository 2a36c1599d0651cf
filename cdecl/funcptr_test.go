package cdecl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFuncPointer(t *testing.T) {
	for _, tc := range []struct {
		name    string
		text    string
		want    FuncPointer
		wantErr bool
	}{
		{
			name: "no params",
			text: "typedef void (VKAPI_PTR *PFN_vkVoidFunction)(void);",
			want: FuncPointer{Name: "PFN_vkVoidFunction", Return: Declarator{Type: "void"}},
		},
		{
			name: "pointer return",
			text: "typedef void* (VKAPI_PTR *PFN_vkAllocationFunction)(\n" +
				"    void*                                       pUserData,\n" +
				"    size_t                                      size,\n" +
				"    size_t                                      alignment,\n" +
				"    VkSystemAllocationScope                     allocationScope);",
			want: FuncPointer{
				Name:   "PFN_vkAllocationFunction",
				Return: Declarator{Type: "void", Depth: 1},
				Params: []Declarator{
					{Type: "void", Name: "pUserData", Depth: 1},
					{Type: "size_t", Name: "size"},
					{Type: "size_t", Name: "alignment"},
					{Type: "VkSystemAllocationScope", Name: "allocationScope"},
				},
			},
		},
		{
			name: "const params",
			text: "typedef VkBool32 (VKAPI_PTR *PFN_vkDebugReportCallbackEXT)(\n" +
				"    VkDebugReportFlagsEXT flags,\n" +
				"    const char* pMessage,\n" +
				"    void* pUserData);",
			want: FuncPointer{
				Name:   "PFN_vkDebugReportCallbackEXT",
				Return: Declarator{Type: "VkBool32"},
				Params: []Declarator{
					{Type: "VkDebugReportFlagsEXT", Name: "flags"},
					{Type: "char", Name: "pMessage", Depth: 1, Const: [3]bool{true, false, false}},
					{Type: "void", Name: "pUserData", Depth: 1},
				},
			},
		},
		{
			name: "array params",
			text: "typedef void (VKAPI_PTR *PFN_vkBlend)(const float constants[4], uint32_t m[2][3], char name[VK_MAX_NAME_SIZE]);",
			want: FuncPointer{
				Name:   "PFN_vkBlend",
				Return: Declarator{Type: "void"},
				Params: []Declarator{
					{Type: "float", Name: "constants", Const: [3]bool{true, false, false}, Dim: Dimension{Kind: DimLiteral, Sizes: []int{4}}},
					{Type: "uint32_t", Name: "m", Dim: Dimension{Kind: DimLiteral, Sizes: []int{2, 3}}},
					{Type: "char", Name: "name", Dim: Dimension{Kind: DimConstant, Constant: "VK_MAX_NAME_SIZE"}},
				},
			},
		},
		{
			name:    "not a function pointer",
			text:    "typedef uint32_t VkFlags;",
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			check := assert.New(t)
			got, err := ParseFuncPointer(tc.text)
			if tc.wantErr {
				check.Error(err)
				return
			}
			check.NoError(err)
			check.Equal(tc.want, got)
		})
	}
}
