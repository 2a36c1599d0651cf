package schema

import (
	"github.com/andaru/vkregistry/cdecl"
	"github.com/andaru/vkregistry/registry"
	"github.com/andaru/vkregistry/xmltok"
	"github.com/pkg/errors"
)

// TryParseCommand parses a <command>, either an alias or a full
// signature.
func TryParseCommand(t xmltok.Tokenizer, cfg *Config) (Result[registry.Command], error) {
	cfg = resolved(cfg)
	name, attrs, ok := lookahead(t)
	if !ok || name != "command" || !cfg.selects(attrs, "api") {
		return NoMatch[registry.Command](), nil
	}
	e, err := open(&t)
	if err != nil {
		return NoMatch[registry.Command](), err
	}
	if e.has("alias") {
		if err := skip(&t, e); err != nil {
			return NoMatch[registry.Command](), err
		}
		return Matched(registry.Command{Name: e.attr("name"), Alias: e.attr("alias")}, t), nil
	}
	cmd := registry.Command{Meta: registry.CommandMeta{
		Queues:         e.list("queues"),
		SuccessCodes:   e.list("successcodes"),
		ErrorCodes:     e.list("errorcodes"),
		RenderPass:     e.attr("renderpass"),
		VideoCoding:    e.attr("videocoding"),
		CmdBufferLevel: e.list("cmdbufferlevel"),
		Tasks:          e.list("tasks"),
		AllowNoQueues:  e.flag("allownoqueues"),
	}}
	err = children(&t, e, nil, func(c element) error {
		switch c.name {
		case "proto":
			f, err := fragments(&t, c)
			if err != nil {
				return err
			}
			d, err := cdecl.Parse(f, false)
			if err != nil {
				return errors.Wrap(err, "proto")
			}
			cmd.Name, cmd.Return = d.Name, d.Type
		case "param":
			if !cfg.selects(c.attrs, "api") {
				return skip(&t, c)
			}
			p, err := param(&t, c)
			if err != nil {
				return errors.Wrapf(err, "%s param", cmd.Name)
			}
			cmd.Params = append(cmd.Params, p)
		case "implicitexternsyncparams":
			return children(&t, c, nil, func(p element) error {
				s, err := text(&t, p)
				cmd.Meta.ImplicitExternSync = append(cmd.Meta.ImplicitExternSync, s)
				return err
			})
		default:
			return skip(&t, c)
		}
		return nil
	})
	if err != nil {
		return NoMatch[registry.Command](), err
	}
	if cmd.Name == "" || cmd.Return == "" {
		return NoMatch[registry.Command](), shapeErr(&t, e, "command has no <proto>")
	}
	return Matched(cmd, t), nil
}

// param reads a <param>. Parameters may use two pointer levels, as in
// vkMapMemory's ppData.
func param(t *xmltok.Tokenizer, c element) (registry.Param, error) {
	f, err := fragments(t, c)
	if err != nil {
		return registry.Param{}, err
	}
	d, err := cdecl.Parse(f, multiLevel)
	if err != nil {
		return registry.Param{}, err
	}
	return registry.Param{
		Declarator:     d,
		Len:            cdecl.ParseLength(c.attr("len"), c.attr("altlen")),
		AltLen:         c.attr("altlen"),
		Optional:       boolList(c.attr("optional")),
		ValidStructs:   c.list("validstructs"),
		ExternSync:     c.attr("externsync"),
		NoAutoValidity: c.flag("noautovalidity"),
	}, nil
}
