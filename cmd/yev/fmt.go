package main

import (
	"bytes"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/yev/emitter"
	"github.com/signadot/yev/evtext"
	"github.com/signadot/yev/parser"
)

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	ins, err := inputs(cc, args)
	if err != nil {
		return err
	}
	colored := cfg.colored(cc.Out)
	differs := false
	for _, in := range ins {
		out, err := reformat(in.data, cfg.emitOpts()...)
		if err != nil {
			return fmt.Errorf("error processing %s: %w", in.name, err)
		}
		if !cfg.Diff {
			if _, err := cc.Out.Write(out); err != nil {
				return err
			}
			continue
		}
		d, err := lineDiff(cc.Out, in.name, string(in.data), string(out), colored)
		if err != nil {
			return err
		}
		differs = differs || d
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// reformat decodes src and encodes its events again.
func reformat(src []byte, opts ...emitter.Option) ([]byte, error) {
	p := parser.New(parser.Borrow(src))
	defer p.Close()
	evs, _, err := p.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error decoding: %w", err)
	}
	buf := bytes.NewBuffer(nil)
	e := emitter.New(buf, opts...)
	defer e.Close()
	for _, ev := range evs {
		out, err := evtext.ToEmitter(ev)
		if err != nil {
			return nil, err
		}
		if err := e.Emit(out); err != nil {
			return nil, fmt.Errorf("error encoding: %w", err)
		}
	}
	if err := e.Flush(); err != nil {
		return nil, fmt.Errorf("error encoding: %w", err)
	}
	return buf.Bytes(), nil
}
