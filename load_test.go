package vkregistry

import (
	"os"
	"strings"
	"testing"

	"github.com/andaru/vkregistry/cdecl"
	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/resolve"
	"github.com/andaru/vkregistry/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReporter struct {
	sawErrors []error
}

func (m *mockReporter) Report(err error) { m.sawErrors = append(m.sawErrors, err) }

func (m *mockReporter) kinds() map[regerr.Kind][]string {
	out := map[regerr.Kind][]string{}
	for _, err := range m.sawErrors {
		if e, ok := regerr.As(err); ok {
			out[e.Kind] = append(out[e.Kind], e.Entity)
		}
	}
	return out
}

func fixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/registry.xml")
	require.NoError(t, err)
	return b
}

func TestLoad(t *testing.T) {
	check := assert.New(t)
	rep := &mockReporter{}
	reg, err := Load(fixture(t), WithReporter(rep))
	require.NoError(t, err)

	check.Equal(map[regerr.Kind][]string{regerr.KindShapeMismatch: {"pppTooDeep"}}, rep.kinds())
	check.Nil(reg.Struct("VkBrokenInfo"))

	check.NotNil(reg.Platform("xlib"))
	check.NotNil(reg.Tag("EXT"))
	check.NotNil(reg.FuncPointer("PFN_vkVoidFunction"))
	if c := reg.Constant("VK_WHOLE_SIZE"); check.NotNil(c) {
		check.Equal(registry.ConstUint64, c.Kind)
		check.Equal(^uint64(0), c.Int)
	}
	if u := reg.Union("VkClearColorValue"); check.NotNil(u) && check.Len(u.Members, 2) {
		check.Equal(cdecl.Dimension{Kind: cdecl.DimLiteral, Sizes: []int{4}}, u.Members[0].Dim)
	}
	if b := reg.ResolveBitmask("VkCullModeFlags"); check.NotNil(b) {
		check.Equal("VkCullModeFlagBits", b.Bits)
		check.Equal(32, b.Width)
	}
	check.Equal([]registry.Span{{Bit: 0, Width: 32, Padding: true}}, reg.BitmaskLayout("VkInstanceCreateFlags"))
	check.Equal(reg.Group("VkCullModeFlagBits").Layout, reg.BitmaskLayout("VkCullModeFlags"))
	check.Nil(reg.BitmaskLayout("VkNoSuchFlags"))
	check.Equal([]string{"VK_KHR_surface", "VK_KHR_get_physical_device_properties2"}, extNames(reg.InstanceExtensions()))
	check.Equal([]string{"VK_KHR_swapchain"}, extNames(reg.DeviceExtensions()))
	check.Nil(reg.Extension("VK_KHR_extension_99"))
	check.Nil(reg.Extension("VK_NV_disabled"))
	if r := reg.Rule("StorageImageReadWithoutFormat"); check.NotNil(r) && check.Len(r.Enables, 1) {
		check.Equal(registry.EnableStruct, r.Enables[0].Kind)
	}
}

func TestLoadAliasStruct(t *testing.T) {
	check := assert.New(t)
	reg, err := Load(fixture(t), WithReporter(&mockReporter{}))
	require.NoError(t, err)

	alias := reg.Struct("VkPhysicalDeviceFeatures2KHR")
	if check.NotNil(alias) {
		check.Equal("VkPhysicalDeviceFeatures2", alias.Alias)
		check.Empty(alias.Members)
	}
	s := reg.ResolveStruct("VkPhysicalDeviceFeatures2KHR")
	if check.NotNil(s) {
		check.Equal("VkPhysicalDeviceFeatures2", s.Name)
		check.Equal("VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2", s.SType())
		check.Equal([]string{"VkDeviceCreateInfo"}, s.StructExtends)
		if check.Len(s.Members, 3) {
			check.Equal("pNext", s.Members[1].Name)
			check.Equal(1, s.Members[1].Depth)
			check.Equal("VkPhysicalDeviceFeatures", s.Members[2].Type)
		}
	}
	check.Same(reg.Struct("VkPhysicalDeviceFeatures2"), s)
}

func TestLoadGroups(t *testing.T) {
	check := assert.New(t)
	reg, err := Load(fixture(t), WithReporter(&mockReporter{}))
	require.NoError(t, err)

	for _, tc := range []struct {
		group string
		name  string
		value int64
	}{
		{"VkResult", "VK_SUCCESS", 0},
		{"VkResult", "VK_ERROR_OUT_OF_DATE_KHR", -1_000_001_004},
		{"VkStructureType", "VK_STRUCTURE_TYPE_SWAPCHAIN_CREATE_INFO_KHR", 1_000_001_000},
		{"VkStructureType", "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2", 1_000_059_000},
		{"VkStructureType", "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2_KHR", 1_000_059_000},
		{"VkCullModeFlagBits", "VK_CULL_MODE_BACK_BIT", 2},
		{"VkCullModeFlagBits", "VK_CULL_MODE_FRONT_AND_BACK", 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := reg.Group(tc.group)
			if !assert.NotNil(t, g) {
				return
			}
			f, ok := g.Field(tc.name)
			if assert.True(t, ok) {
				assert.Equal(t, tc.value, f.Value)
			}
		})
	}

	st := reg.Group("VkStructureType")
	if check.NotNil(st) {
		check.Len(st.Fields, 4)
		check.Equal([]registry.Alias{{Name: "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2_KHR", Target: "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2"}}, st.Aliases)
		_, ok := st.Field("VK_STRUCTURE_TYPE_RESERVED_99_KHR")
		check.False(ok)
	}
	check.Same(reg.Group("VkResult"), reg.ResolveEnum("VkResult"))

	cull := reg.Group("VkCullModeFlagBits")
	if check.NotNil(cull) {
		check.Equal([]registry.Span{
			{Name: "VK_CULL_MODE_FRONT_BIT", Bit: 0, Width: 1},
			{Name: "VK_CULL_MODE_BACK_BIT", Bit: 1, Width: 1},
			{Bit: 2, Width: 30, Padding: true},
		}, cull.Layout)
	}
}

func TestLoadCommands(t *testing.T) {
	check := assert.New(t)
	reg, err := Load(fixture(t), WithReporter(&mockReporter{}))
	require.NoError(t, err)

	for _, tc := range []struct {
		name string
		want registry.Dispatch
	}{
		{"vkCreateInstance", registry.DispatchGlobal},
		{"vkEnumeratePhysicalDevices", registry.DispatchInstance},
		{"vkGetDeviceProcAddr", registry.DispatchInstance},
		{"vkQueueSubmit", registry.DispatchDevice},
		{"vkGetPhysicalDeviceFeatures2KHR", registry.DispatchInstance},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := reg.CommandDispatch(tc.name)
			assert.True(t, ok)
			assert.Equal(t, tc.want, d)
		})
	}

	if cmd := reg.ResolveCommand("vkGetPhysicalDeviceFeatures2KHR"); check.NotNil(cmd) {
		check.Equal("vkGetPhysicalDeviceFeatures2", cmd.Name)
		check.Len(cmd.Params, 2)
	}
	if cmd := reg.Command("vkEnumeratePhysicalDevices"); check.NotNil(cmd) && check.Len(cmd.Params, 3) {
		check.Equal([]string{"VK_SUCCESS", "VK_INCOMPLETE"}, cmd.Meta.SuccessCodes)
		check.Equal([]bool{false, true}, cmd.Params[1].Optional)
		check.Equal([]cdecl.LenToken{{Kind: cdecl.LenMember, Value: "pPhysicalDeviceCount"}}, cmd.Params[2].Len)
	}
	check.Equal([]string{"VK_VERSION_1_0"}, featureNames(reg.FeaturesUnlocking("vkQueueSubmit")))
	check.Equal([]string{"VK_KHR_get_physical_device_properties2"}, extNames(reg.ExtensionsUnlocking("vkGetPhysicalDeviceFeatures2KHR")))
	check.Equal([]string{"VK_KHR_surface"}, extNames(reg.ExtensionsUnlocking("VkSurfaceKHR")))
}

func TestLoadAudit(t *testing.T) {
	rep := &mockReporter{}
	_, err := Load(fixture(t), WithReporter(rep), WithAudit())
	require.NoError(t, err)
	assert.Equal(t, map[regerr.Kind][]string{
		regerr.KindShapeMismatch: {"pppTooDeep"},
		regerr.KindUnresolved:    {"VkBrokenInfo", "VK_KHR_extension_99"},
	}, rep.kinds())
}

func TestLoadOptions(t *testing.T) {
	check := assert.New(t)

	cfg, err := resolve.LoadConfig(strings.NewReader("exclude:\n  extensions: [\"VK_KHR_swap*\"]\n"))
	require.NoError(t, err)
	reg, err := Load(fixture(t), WithReporter(&mockReporter{}), WithResolveConfig(cfg))
	require.NoError(t, err)
	check.Nil(reg.Extension("VK_KHR_swapchain"))
	check.NotNil(reg.Extension("VK_KHR_extension_99"))
	d, ok := reg.CommandDispatch("vkGetDeviceProcAddr")
	check.True(ok)
	check.Equal(registry.DispatchDevice, d)

	_, err = Load(fixture(t), WithPolicy(schema.PolicyStrict))
	if e, ok := regerr.As(err); check.True(ok, "%v", err) {
		check.Equal(regerr.KindShapeMismatch, e.Kind)
		check.Equal("pppTooDeep", e.Entity)
	}

	reg, err = Load(fixture(t), WithAPI("vulkansc"), WithReporter(&mockReporter{}))
	require.NoError(t, err)
	check.NotNil(reg.Extension("VK_KHR_swapchain"))
	check.Nil(reg.Extension("VK_KHR_get_physical_device_properties2"))

	_, err = Load([]byte(`<registry><enums name="VkResult" type="enum"><enum value="1x" name="VK_X"/></enums></registry>`))
	check.True(regerr.IsFatal(err))
}

func extNames(exts []*registry.Extension) []string {
	var names []string
	for _, e := range exts {
		names = append(names, e.Name)
	}
	return names
}

func featureNames(fs []*registry.Feature) []string {
	var names []string
	for _, f := range fs {
		names = append(names, f.Name)
	}
	return names
}
