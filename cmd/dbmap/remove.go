package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/scott-cotton/cli"

	"github.com/SoftwarePlumbers/db-plumbing-map/query"
	"github.com/SoftwarePlumbers/db-plumbing-map/store"
)

func remove(cfg *RemoveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Remove.Parse(cc, args)
	if err != nil {
		cfg.Remove.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	s, err := cfg.open()
	if err != nil {
		return err
	}
	var removed bool
	switch {
	case cfg.Query != "":
		if len(args) != 0 {
			return fmt.Errorf("%w: remove -q takes no arguments, got %v", cli.ErrUsage, args)
		}
		q, err := query.New[store.Document](cfg.Query)
		if err != nil {
			return fmt.Errorf("%w: %v", cli.ErrUsage, err)
		}
		removed, err = s.RemoveAll(q, nil)
		if err != nil {
			return err
		}
	case len(args) == 1:
		removed = s.Remove(args[0])
	default:
		return fmt.Errorf("%w: remove requires a key or -q expr", cli.ErrUsage)
	}
	if !removed {
		fmt.Fprintln(os.Stderr, "nothing removed")
	}
	return printYAML(cc.Out, slices.Collect(s.All()))
}
