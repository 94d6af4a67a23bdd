package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/yev/emitter"
	"github.com/signadot/yev/evtext"
)

func emit(cfg *EmitConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Emit.Parse(cc, args)
	if err != nil {
		return err
	}
	ins, err := inputs(cc, args)
	if err != nil {
		return err
	}
	for _, in := range ins {
		if err := emitNotation(cc.Out, in.data, cfg.emitOpts()...); err != nil {
			return fmt.Errorf("error processing %s: %w", in.name, err)
		}
	}
	return nil
}

func emitNotation(w io.Writer, notation []byte, opts ...emitter.Option) error {
	evs, err := evtext.Parse(bytes.NewReader(notation))
	if err != nil {
		return err
	}
	e := emitter.New(w, opts...)
	defer e.Close()
	for i, ev := range evs {
		if err := e.Emit(ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, ev.Type, err)
		}
	}
	return e.Flush()
}
