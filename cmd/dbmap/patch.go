package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/scott-cotton/cli"

	"github.com/SoftwarePlumbers/db-plumbing-map/fixture"
)

func patchRun(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: patch requires one argument, a patch file", cli.ErrUsage)
	}
	p, err := fixture.ReadPatch(args[0])
	if err != nil {
		return err
	}
	s, err := cfg.open()
	if err != nil {
		return err
	}
	n, err := s.Bulk(p)
	if err != nil {
		return fmt.Errorf("applying %s: %w", args[0], err)
	}
	fmt.Fprintf(os.Stderr, "applied %d ops, %d documents\n", n, s.Len())
	if cfg.Quiet {
		return nil
	}
	return printYAML(cc.Out, slices.Collect(s.All()))
}
