package vkregistry

import (
	"github.com/andaru/vkregistry/audit"
	"github.com/andaru/vkregistry/regerr"
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/resolve"
	"github.com/andaru/vkregistry/schema"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type options struct {
	parse   schema.Config
	resolve resolve.Config
	audit   bool
}

// Option is a Load option function
type Option func(*options)

// WithAPI selects the API whose entities are read (default "vulkan").
func WithAPI(api string) Option { return func(o *options) { o.parse.API = api } }

// WithPolicy sets the handling of partially-read entities.
func WithPolicy(p schema.Policy) Option { return func(o *options) { o.parse.Policy = p } }

// WithReporter sets the receiver of lenient drop and audit diagnostics.
func WithReporter(r schema.Reporter) Option { return func(o *options) { o.parse.Reporter = r } }

// WithResolveConfig replaces the built-in resolver policy.
func WithResolveConfig(cfg resolve.Config) Option { return func(o *options) { o.resolve = cfg } }

// WithAudit enables the DOM census cross-check.
func WithAudit() Option { return func(o *options) { o.audit = true } }

// Load parses and resolves the registry document src.
func Load(src []byte, opts ...Option) (*registry.Registry, error) {
	o := &options{
		parse:   schema.DefaultConfig(),
		resolve: resolve.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.parse.API == "" {
		o.parse.API = schema.DefaultAPI
	}
	if o.parse.Reporter == nil {
		o.parse.Reporter = schema.LogReporter
	}

	parsed, err := schema.Parse(string(src), &o.parse)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	reg, err := resolve.Run(parsed, o.resolve)
	if err != nil {
		return nil, errors.Wrap(err, "resolve")
	}
	if o.audit {
		if err := runAudit(src, reg, &o.parse); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// runAudit reports each entity of src that reg does not hold as an
// unresolved error.
func runAudit(src []byte, reg *registry.Registry, cfg *schema.Config) error {
	census, err := audit.Take(src, cfg.API)
	if err != nil {
		return err
	}
	findings := audit.Compare(census, reg)
	for _, f := range findings {
		cfg.Reporter.Report(regerr.Unresolved(f.Name,
			regerr.WithElement(string(f.Category)),
			regerr.WithMessage("in document but not in registry")))
	}
	glog.V(1).Infof("audit: %d entities missing", len(findings))
	return nil
}
