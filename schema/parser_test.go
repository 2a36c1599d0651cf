package schema

import (
	"strings"
	"testing"

	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReporter struct {
	sawErrors []error
}

func (m *mockReporter) Report(err error) { m.sawErrors = append(m.sawErrors, err) }

const document = `<?xml version="1.0" encoding="UTF-8"?>
<registry>
    <comment>Copyright notice</comment>
    <platforms comment="platform names">
        <platform name="xlib" protect="VK_USE_PLATFORM_XLIB_KHR"/>
    </platforms>
    <tags>
        <tag name="KHR" author="Khronos" contact="Tom Olson @tomolson"/>
    </tags>
    <types comment="Vulkan type definitions">
        <type name="vk_platform" category="include">#include "vk_platform.h"</type>
        <type category="define">#define <name>VK_MAKE_VERSION</name>(major, minor, patch) ...</type>
        <type requires="X11/Xlib.h" name="Display"/>
        <type category="basetype">typedef <type>uint32_t</type> <name>VkFlags</name>;</type>
        <type category="handle" parent="VkPhysicalDevice"><type>VK_DEFINE_HANDLE</type>(<name>VkDevice</name>)</type>
        <type category="struct" name="VkBroken">
            <member><type>void</type>*** <name>pBad</name></member>
        </type>
        <type category="struct" name="VkGood">
            <member><type>uint32_t</type> <name>x</name></member>
        </type>
        <type category="mystery" name="VkMystery"/>
    </types>
    <formats><format name="VK_FORMAT_R8_UNORM"/></formats>
    <enums name="VkResult" type="enum">
        <enum value="0" name="VK_SUCCESS"/>
    </enums>
    <commands>
        <command name="vkAliased" alias="vkReal"/>
    </commands>
    <newthing><nested/></newthing>
    <extensions>
        <extension name="VK_KHR_off" number="9" type="device" supported="disabled"/>
    </extensions>
</registry>
`

func TestParseLenient(t *testing.T) {
	check := assert.New(t)
	rep := &mockReporter{}
	src, err := Parse(document, &Config{Reporter: rep})
	require.NoError(t, err)

	check.Equal(document, src.Text)
	check.Len(src.Platforms, 1)
	check.Len(src.Tags, 1)
	if check.Len(src.BaseTypes, 2) {
		check.Equal("Display", src.BaseTypes[0].Name)
		check.Equal("VkFlags", src.BaseTypes[1].Name)
	}
	check.Len(src.Handles, 1)
	if check.Len(src.Structs, 1) {
		check.Equal("VkGood", src.Structs[0].Name)
	}
	check.Len(src.Groups, 1)
	check.Len(src.Commands, 1)
	check.Empty(src.Extensions)

	if check.Len(rep.sawErrors, 1) {
		e, ok := regerr.As(rep.sawErrors[0])
		if check.True(ok) {
			check.Equal(regerr.KindShapeMismatch, e.Kind)
			check.Equal("pBad", e.Entity)
		}
	}
}

func TestParseStrict(t *testing.T) {
	rep := &mockReporter{}
	_, err := Parse(document, &Config{Policy: PolicyStrict, Reporter: rep})
	assert.Error(t, err)
	assert.False(t, regerr.IsFatal(err))
	assert.Empty(t, rep.sawErrors)
}

func TestParseFatal(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		kind  regerr.Kind
	}{
		{
			name:  "malformed literal",
			input: `<registry><enums name="VkResult" type="enum"><enum value="0xZZ" name="VK_X"/></enums></registry>`,
			kind:  regerr.KindMalformedLiteral,
		},
		{
			name:  "unterminated comment",
			input: `<registry><!-- oops </registry>`,
			kind:  regerr.KindSyntax,
		},
		{
			name:  "truncated element",
			input: `<registry><types><type category="struct" name="VkX"><member>`,
			kind:  regerr.KindSyntax,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rep := &mockReporter{}
			_, err := Parse(tc.input, &Config{Reporter: rep})
			e, ok := regerr.As(err)
			if assert.True(t, ok, "%v", err) {
				assert.Equal(t, tc.kind, e.Kind)
			}
			assert.Empty(t, rep.sawErrors)
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	a, errA := Parse(document, &Config{Reporter: &mockReporter{}})
	b, errB := Parse(document, &Config{Reporter: &mockReporter{}})
	assert.NoError(t, errA)
	assert.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestUnknownElement(t *testing.T) {
	check := assert.New(t)
	input := "<registry>\n  <newthing/>\n</registry>"
	tok := xmltok.New(input)
	tok.Next()
	tok.FinishTag()
	tok.Next()
	e := unknown(tok, "newthing")
	check.Equal(regerr.KindUnknownElement, e.Kind)
	check.Equal("newthing", e.Element)
	check.Equal(strings.Index(input, "<newthing"), e.Offset)
	check.Equal("unknown-element error element:newthing offset:13 line 2", e.Error())
	check.False(regerr.IsFatal(e))
}

func TestPolicyText(t *testing.T) {
	var p Policy
	assert.NoError(t, p.UnmarshalText([]byte("strict")))
	assert.Equal(t, PolicyStrict, p)
	assert.Equal(t, "strict", p.String())
	assert.Error(t, p.UnmarshalText([]byte("loose")))
}
