package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/yev/emitter"
	"github.com/signadot/yev/evtext"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='output with color'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// colored reports whether output to w is colored: always with -color,
// never with -color=false, and otherwise when w is a terminal.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		color.NoColor = false
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (cfg *MainConfig) formatOpts(w io.Writer) []evtext.Option {
	if !cfg.colored(w) {
		return nil
	}
	return []evtext.Option{evtext.FormatColors(evtext.NewColors())}
}

type EventsConfig struct {
	*MainConfig

	Marks bool `cli:"name=marks desc='show the position of each event'"`
	Repr  bool `cli:"name=repr desc='show the source text of scalars'"`
	Path  bool `cli:"name=path desc='show the path of each node'"`

	Events *cli.Command
}

type EmitConfig struct {
	*MainConfig

	Width int  `cli:"name=width desc='preferred line width, negative for unlimited'"`
	ASCII bool `cli:"name=ascii desc='escape non-ASCII characters'"`

	Emit *cli.Command
}

func (cfg *EmitConfig) emitOpts() []emitter.Option {
	return emitOpts(cfg.Width, cfg.ASCII)
}

type FmtConfig struct {
	*MainConfig

	Diff  bool `cli:"name=diff desc='show the difference between input and output instead of the output'"`
	Width int  `cli:"name=width desc='preferred line width, negative for unlimited'"`
	ASCII bool `cli:"name=ascii desc='escape non-ASCII characters'"`

	Fmt *cli.Command
}

func (cfg *FmtConfig) emitOpts() []emitter.Option {
	return emitOpts(cfg.Width, cfg.ASCII)
}

func emitOpts(width int, ascii bool) []emitter.Option {
	if width == 0 {
		width = -1
	}
	return []emitter.Option{emitter.Width(width), emitter.Unicode(!ascii)}
}
