package main

import (
	"fmt"
	"slices"

	"github.com/scott-cotton/cli"
)

func list(cfg *ListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		cfg.List.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: list takes no arguments, got %v", cli.ErrUsage, args)
	}
	s, err := cfg.open()
	if err != nil {
		return err
	}
	return printYAML(cc.Out, slices.Collect(s.All()))
}
