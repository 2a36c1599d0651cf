package schema

import (
	"testing"

	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/stretchr/testify/assert"
)

const swapchainXML = `<extension name="VK_KHR_swapchain" number="2" type="device" depends="VK_KHR_surface" author="KHR" contact="James Jones @cubanismo" supported="vulkan,vulkansc" ratified="vulkan,vulkansc">
            <require>
                <enum value="70"                                                name="VK_KHR_SWAPCHAIN_SPEC_VERSION"/>
                <enum value="&quot;VK_KHR_swapchain&quot;"                      name="VK_KHR_SWAPCHAIN_EXTENSION_NAME"/>
                <enum offset="0" extends="VkStructureType"                      name="VK_STRUCTURE_TYPE_SWAPCHAIN_CREATE_INFO_KHR"/>
                <enum offset="4" extends="VkResult" dir="-"                     name="VK_ERROR_OUT_OF_DATE_KHR"/>
                <enum extnumber="1" offset="2" extends="VkImageLayout"          name="VK_IMAGE_LAYOUT_PRESENT_SRC_KHR"/>
                <enum bitpos="0" extends="VkSwapchainCreateFlagBitsKHR"         name="VK_SWAPCHAIN_CREATE_SPLIT_INSTANCE_BIND_REGIONS_BIT_KHR"/>
                <enum extends="VkResult" name="VK_ERROR_OUT_OF_DATE" alias="VK_ERROR_OUT_OF_DATE_KHR"/>
                <type name="VkSwapchainKHR"/>
                <command name="vkCreateSwapchainKHR"/>
                <comment>ignored</comment>
            </require>
            <require api="vulkansc">
                <command name="vkScOnly"/>
            </require>
            <require depends="VK_VERSION_1_1">
                <enum name="VK_STRUCTURE_TYPE_IMAGE_SWAPCHAIN_CREATE_INFO_KHR"/>
                <feature name="swapchainMaintenance" struct="VkPhysicalDeviceSwapchainFeatures"/>
            </require>
        </extension>`

func TestTryParseExtension(t *testing.T) {
	check := assert.New(t)
	r, err := TryParseExtension(xmltok.New(swapchainXML+tail), nil)
	check.NoError(err)
	if !check.True(r.Ok()) {
		return
	}
	check.Equal(tail, r.Next.Rest())
	ext := r.Value
	check.Equal("VK_KHR_swapchain", ext.Name)
	check.Equal(2, ext.Number)
	check.Equal(registry.ScopeDevice, ext.Scope)
	check.Equal(70, ext.SpecVersion)
	check.Equal("VK_KHR_swapchain", ext.NameString)
	check.Equal([]string{"vulkan", "vulkansc"}, ext.Supported)
	check.Equal("VK_KHR_surface", ext.Depends)
	if !check.Len(ext.Requires, 2) {
		return
	}
	items := ext.Requires[0].Items
	if check.Len(items, 9) {
		check.Equal(registry.EnumContribution{Name: "VK_STRUCTURE_TYPE_SWAPCHAIN_CREATE_INFO_KHR", Extends: "VkStructureType", Form: registry.ContribOffset}, *items[2].Enum)
		check.Equal(registry.EnumContribution{Name: "VK_ERROR_OUT_OF_DATE_KHR", Extends: "VkResult", Form: registry.ContribOffset, Offset: 4, Negative: true}, *items[3].Enum)
		check.Equal(1, items[4].Enum.ExtNumber)
		check.Equal(registry.ContribBitPos, items[5].Enum.Form)
		check.Equal(registry.ContribAlias, items[6].Enum.Form)
		check.Equal(registry.RequireItem{Kind: registry.ItemType, Name: "VkSwapchainKHR"}, items[7])
		check.Equal(registry.RequireItem{Kind: registry.ItemCommand, Name: "vkCreateSwapchainKHR"}, items[8])
	}
	last := ext.Requires[1]
	check.Equal("VK_VERSION_1_1", last.Depends)
	if check.Len(last.Items, 2) {
		check.Equal(registry.ContribReference, last.Items[0].Enum.Form)
		check.Equal(registry.RequireItem{Kind: registry.ItemFeature, Name: "swapchainMaintenance", Struct: "VkPhysicalDeviceSwapchainFeatures"}, last.Items[1])
	}
}

func TestTryParseExtensionDropped(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		cfg   *Config
	}{
		{name: "disabled", input: `<extension name="VK_X" number="3" type="device" supported="disabled"/>`},
		{name: "no scope", input: `<extension name="VK_X" number="3" supported="vulkan"/>`},
		{name: "other api", input: `<extension name="VK_X" number="3" type="device" supported="vulkan"/>`, cfg: &Config{API: "vulkansc"}},
		{name: "not an extension", input: `<feature api="vulkan" name="VK_VERSION_1_0" number="1.0"/>`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := TryParseExtension(xmltok.New(tc.input), tc.cfg)
			assert.NoError(t, err)
			assert.False(t, r.Ok())
		})
	}
}

func TestTryParseFeature(t *testing.T) {
	check := assert.New(t)
	input := `<feature api="vulkan,vulkansc" name="VK_VERSION_1_1" number="1.1" depends="VK_VERSION_1_0">
        <require comment="Promoted from VK_KHR_maintenance1">
            <enum extends="VkResult" extnumber="70" offset="0" dir="-" name="VK_ERROR_OUT_OF_POOL_MEMORY"/>
            <command name="vkTrimCommandPool"/>
        </require>
        <remove><command name="vkGone"/></remove>
    </feature>`
	r, err := TryParseFeature(xmltok.New(input+tail), nil)
	check.NoError(err)
	if !check.True(r.Ok()) {
		return
	}
	f := r.Value
	check.Equal("VK_VERSION_1_1", f.Name)
	check.Equal("1.1", f.Number)
	check.Equal([]string{"vulkan", "vulkansc"}, f.API)
	check.Equal(tail, r.Next.Rest())
	if check.Len(f.Requires, 1) && check.Len(f.Requires[0].Items, 2) {
		ec := f.Requires[0].Items[0].Enum
		check.Equal(70, ec.ExtNumber)
		check.True(ec.Negative)
	}
}

func TestTryParseCapabilityRule(t *testing.T) {
	check := assert.New(t)
	input := `<spirvcapability name="StorageImageReadWithoutFormat">
            <enable version="VK_VERSION_1_3"/>
            <enable extension="VK_KHR_format_feature_flags2"/>
            <enable struct="VkPhysicalDeviceFeatures" feature="shaderStorageImageReadWithoutFormat" requires="VK_VERSION_1_0"/>
            <enable property="VkPhysicalDeviceVulkan11Properties" member="subgroupSupportedOperations" value="VK_SUBGROUP_FEATURE_BASIC_BIT" requires="VK_VERSION_1_1,VK_KHR_x"/>
        </spirvcapability>`
	r, err := TryParseCapabilityRule(xmltok.New(input+tail), nil)
	check.NoError(err)
	if !check.True(r.Ok()) {
		return
	}
	check.Equal(registry.CapabilityRule{
		Kind: registry.RuleCapability,
		Name: "StorageImageReadWithoutFormat",
		Enables: []registry.Enable{
			{Kind: registry.EnableVersion, Version: "VK_VERSION_1_3"},
			{Kind: registry.EnableExtension, Extension: "VK_KHR_format_feature_flags2"},
			{Kind: registry.EnableStruct, Struct: "VkPhysicalDeviceFeatures", Feature: "shaderStorageImageReadWithoutFormat", Requires: []string{"VK_VERSION_1_0"}},
			{Kind: registry.EnableProperty, Property: "VkPhysicalDeviceVulkan11Properties", Member: "subgroupSupportedOperations", Value: "VK_SUBGROUP_FEATURE_BASIC_BIT", Requires: []string{"VK_VERSION_1_1", "VK_KHR_x"}},
		},
	}, r.Value)
	check.Equal(tail, r.Next.Rest())
}

func TestTryParsePlatformAndTag(t *testing.T) {
	check := assert.New(t)
	p, err := TryParsePlatform(xmltok.New(`<platform name="xlib" protect="VK_USE_PLATFORM_XLIB_KHR" comment="X Window System, Xlib client library"/>`), nil)
	check.NoError(err)
	if check.True(p.Ok()) {
		check.Equal(registry.Platform{Name: "xlib", Protect: "VK_USE_PLATFORM_XLIB_KHR", Comment: "X Window System, Xlib client library"}, p.Value)
	}
	tag, err := TryParseTag(xmltok.New(`<tag name="IMG" author="Imagination Technologies" contact="Andrew Garrard @fluppeteer"/>`), nil)
	check.NoError(err)
	if check.True(tag.Ok()) {
		check.Equal(registry.VendorTag{Name: "IMG", Author: "Imagination Technologies", Contact: "Andrew Garrard @fluppeteer"}, tag.Value)
	}
}
