package resolve

import (
	"bytes"
	_ "embed"
	"io"

	"github.com/andaru/vkregistry/registry"
	"github.com/pkg/errors"
	ignore "github.com/sabhiram/go-gitignore"
	"gopkg.in/yaml.v3"
)

//go:embed default_policy.yaml
var defaultPolicy []byte

// Exclusions are gitignore-style name patterns.
type Exclusions struct {
	Extensions   []string `yaml:"extensions"`
	Structs      []string `yaml:"structs"`
	Capabilities []string `yaml:"capabilities"`
}

// Config is the resolver policy.
type Config struct {
	Exclude  Exclusions                   `yaml:"exclude"`
	Dispatch map[string]registry.Dispatch `yaml:"dispatch"`
}

// LoadConfig reads a YAML policy. Unknown fields are an error; empty
// input yields the zero Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "resolver policy")
	}
	return cfg, nil
}

// DefaultConfig returns the built-in policy.
func DefaultConfig() Config {
	cfg, err := LoadConfig(bytes.NewReader(defaultPolicy))
	if err != nil {
		panic(err)
	}
	return cfg
}

type matcher struct{ gi *ignore.GitIgnore }

func compile(patterns []string) matcher {
	if len(patterns) == 0 {
		return matcher{}
	}
	return matcher{ignore.CompileIgnoreLines(patterns...)}
}

func (m matcher) match(name string) bool { return m.gi != nil && m.gi.MatchesPath(name) }

// exclude returns a copy of src without the entities the policy
// excludes.
func (c Config) exclude(src registry.Source) registry.Source {
	exts, structs, rules := compile(c.Exclude.Extensions), compile(c.Exclude.Structs), compile(c.Exclude.Capabilities)
	src.Extensions = filter(src.Extensions, func(e registry.Extension) bool { return !exts.match(e.Name) })
	src.Structs = filter(src.Structs, func(s registry.Struct) bool { return !structs.match(s.Name) })
	src.Rules = filter(src.Rules, func(r registry.CapabilityRule) bool { return !rules.match(r.Name) })
	return src
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
