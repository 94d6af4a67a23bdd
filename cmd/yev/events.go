package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/scott-cotton/cli"

	"github.com/signadot/yev/evtext"
	"github.com/signadot/yev/parser"
)

func events(cfg *EventsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Events.Parse(cc, args)
	if err != nil {
		return err
	}
	ins, err := inputs(cc, args)
	if err != nil {
		return err
	}
	opts := cfg.formatOpts(cc.Out)
	for _, in := range ins {
		if err := writeEvents(cfg, cc.Out, in.data, opts...); err != nil {
			return fmt.Errorf("error processing %s: %w", in.name, err)
		}
	}
	return nil
}

func writeEvents(cfg *EventsConfig, w io.Writer, data []byte, opts ...evtext.Option) error {
	p := parser.New(parser.Borrow(data))
	defer p.Close()
	state := parser.NewState()
	for {
		ev, mark, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := state.ProcessEvent(&ev); err != nil {
			return fmt.Errorf("%s at %s: %w", ev.Type, mark, err)
		}
		line := evtext.String(ev, opts...)
		if cfg.Path {
			line += "  # path " + state.CurrentPath()
		}
		if cfg.Marks {
			line += "  # " + mark.String()
		}
		if cfg.Repr && ev.Type == parser.EventScalar {
			line += "  # repr " + strconv.Quote(string(ev.Scalar.Repr))
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
}
