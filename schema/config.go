package schema

import (
	"strings"

	"github.com/andaru/vkregistry/xmltok"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// DefaultAPI is the API selected when Config.API is empty.
const DefaultAPI = "vulkan"

// Policy is the handling of partially-read entities.
type Policy uint8

const (
	// PolicyLenient drops the entity and reports a diagnostic.
	PolicyLenient Policy = iota
	// PolicyStrict fails the parse.
	PolicyStrict
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "lenient"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "lenient":
		*p = PolicyLenient
	case "strict":
		*p = PolicyStrict
	default:
		return errors.Errorf("unknown policy %q", b)
	}
	return nil
}

// Reporter receives the diagnostics of entities dropped under
// PolicyLenient.
type Reporter interface {
	Report(err error)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(err error)

// Report calls f(err).
func (f ReporterFunc) Report(err error) { f(err) }

// LogReporter logs diagnostics as warnings.
var LogReporter Reporter = ReporterFunc(func(err error) {
	glog.Warningf("dropping partial entity: %v", err)
})

// Config configures a parse.
type Config struct {
	API      string
	Policy   Policy
	Reporter Reporter
}

// DefaultConfig returns the lenient configuration for the vulkan API.
func DefaultConfig() Config {
	return Config{API: DefaultAPI, Policy: PolicyLenient, Reporter: LogReporter}
}

func resolved(cfg *Config) *Config {
	c := DefaultConfig()
	if cfg != nil {
		c.Policy = cfg.Policy
		if cfg.API != "" {
			c.API = cfg.API
		}
		if cfg.Reporter != nil {
			c.Reporter = cfg.Reporter
		}
	}
	return &c
}

// selects reports whether the comma separated list in attribute name
// includes the configured API. An absent attribute selects every API.
func (c *Config) selects(attrs []xmltok.Attr, name string) bool {
	v, ok := xmltok.Lookup(attrs, name)
	if !ok {
		return true
	}
	for _, api := range strings.Split(v, ",") {
		if strings.TrimSpace(api) == c.API {
			return true
		}
	}
	return false
}
