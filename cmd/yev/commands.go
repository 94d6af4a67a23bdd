package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "yev").
		WithSynopsis("yev [opts] command [opts]").
		WithDescription("yev decodes YAML into events and encodes events into YAML.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return yevMain(cfg, cc, args)
		}).
		WithSubs(
			EventsCommand(cfg),
			EmitCommand(cfg),
			FmtCommand(cfg))
}

func EventsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EventsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Events, "events").
		WithAliases("ev", "e").
		WithSynopsis("events [opts] [files]").
		WithDescription("print the event stream of YAML files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return events(cfg, cc, args)
		})
}

func EmitCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EmitConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Emit, "emit").
		WithAliases("em").
		WithSynopsis("emit [opts] [files]").
		WithDescription("encode event notation as YAML").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return emit(cfg, cc, args)
		})
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fmt, "fmt").
		WithAliases("f").
		WithSynopsis("fmt [opts] [files]").
		WithDescription("decode and re-encode YAML files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return format(cfg, cc, args)
		})
}
