package schema

import (
	"testing"

	"github.com/andaru/vkregistry/cdecl"
	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/stretchr/testify/assert"
)

func TestTryParseCommand(t *testing.T) {
	check := assert.New(t)
	input := `<command successcodes="VK_SUCCESS" errorcodes="VK_ERROR_OUT_OF_HOST_MEMORY,VK_ERROR_MEMORY_MAP_FAILED">
            <proto><type>VkResult</type> <name>vkMapMemory</name></proto>
            <param><type>VkDevice</type> <name>device</name></param>
            <param externsync="true"><type>VkDeviceMemory</type> <name>memory</name></param>
            <param><type>VkDeviceSize</type> <name>offset</name></param>
            <param optional="true"><type>VkMemoryMapFlags</type> <name>flags</name></param>
            <param api="vulkansc"><type>uint32_t</type> <name>scOnly</name></param>
            <param optional="false,true"><type>void</type>** <name>ppData</name></param>
            <implicitexternsyncparams>
                <param>the VkCommandPool that pname:commandBuffer was allocated from</param>
            </implicitexternsyncparams>
        </command>`
	r, err := TryParseCommand(xmltok.New(input+tail), nil)
	check.NoError(err)
	if !check.True(r.Ok()) {
		return
	}
	check.Equal(tail, r.Next.Rest())
	cmd := r.Value
	check.Equal("vkMapMemory", cmd.Name)
	check.Equal("VkResult", cmd.Return)
	check.Equal([]string{"VK_SUCCESS"}, cmd.Meta.SuccessCodes)
	check.Equal([]string{"VK_ERROR_OUT_OF_HOST_MEMORY", "VK_ERROR_MEMORY_MAP_FAILED"}, cmd.Meta.ErrorCodes)
	check.Equal([]string{"the VkCommandPool that pname:commandBuffer was allocated from"}, cmd.Meta.ImplicitExternSync)
	if check.Len(cmd.Params, 5) {
		check.Equal("true", cmd.Params[1].ExternSync)
		check.Equal(registry.Param{
			Declarator: cdecl.Declarator{Type: "void", Name: "ppData", Depth: 2},
			Optional:   []bool{false, true},
		}, cmd.Params[4])
	}
}

func TestTryParseCommandMeta(t *testing.T) {
	check := assert.New(t)
	input := `<command queues="graphics" renderpass="inside" videocoding="outside" cmdbufferlevel="primary,secondary" tasks="action" allownoqueues="true">
            <proto><type>void</type> <name>vkCmdDraw</name></proto>
            <param externsync="true"><type>VkCommandBuffer</type> <name>commandBuffer</name></param>
            <param><type>uint32_t</type> <name>vertexCount</name></param>
        </command>`
	r, err := TryParseCommand(xmltok.New(input), nil)
	check.NoError(err)
	if check.True(r.Ok()) {
		check.Equal(registry.CommandMeta{
			Queues:         []string{"graphics"},
			RenderPass:     "inside",
			VideoCoding:    "outside",
			CmdBufferLevel: []string{"primary", "secondary"},
			Tasks:          []string{"action"},
			AllowNoQueues:  true,
		}, r.Value.Meta)
	}
}

func TestTryParseCommandAlias(t *testing.T) {
	check := assert.New(t)
	r, err := TryParseCommand(xmltok.New(`<command name="vkCmdDrawIndirectCountKHR" alias="vkCmdDrawIndirectCount"/>`+tail), nil)
	check.NoError(err)
	if check.True(r.Ok()) {
		check.Equal(registry.Command{Name: "vkCmdDrawIndirectCountKHR", Alias: "vkCmdDrawIndirectCount"}, r.Value)
		check.Empty(r.Value.Params)
		check.Equal(tail, r.Next.Rest())
	}
}

func TestTryParseCommandNoProto(t *testing.T) {
	_, err := TryParseCommand(xmltok.New(`<command><param><type>int</type> <name>x</name></param></command>`), nil)
	assert.EqualError(t, err, "shape-mismatch error element:command offset:0 command has no <proto>")
}

func TestTryParseCommandProtoDepth(t *testing.T) {
	check := assert.New(t)
	_, err := TryParseCommand(xmltok.New(`<command><proto><type>void</type>** <name>vkBad</name></proto></command>`), nil)
	e, ok := regerr.As(err)
	if check.True(ok, "%v", err) {
		check.Equal(regerr.KindShapeMismatch, e.Kind)
		check.Equal("vkBad", e.Entity)
		check.Equal("multi-level pointer not allowed here", e.Message)
	}
	check.False(regerr.IsFatal(err))
}
