package resolve

import (
	"github.com/andaru/vkregistry/registry"
	"github.com/golang/glog"
)

// Run applies cfg's exclusions to src, resolves its value groups and
// bitmask layouts and builds the Registry.
func Run(src registry.Source, cfg Config) (*registry.Registry, error) {
	kept := cfg.exclude(src)
	if n := len(src.Extensions) - len(kept.Extensions); n > 0 {
		glog.V(1).Infof("resolve: excluded %d extensions", n)
	}
	groups, err := Groups(&kept)
	if err != nil {
		return nil, err
	}
	layouts, err := Layouts(&kept, groups)
	if err != nil {
		return nil, err
	}
	return registry.New(kept, groups,
		registry.WithDispatch(cfg.Dispatch),
		registry.WithLayouts(layouts))
}
