package main

import (
	"fmt"
	"slices"

	"github.com/scott-cotton/cli"

	"github.com/SoftwarePlumbers/db-plumbing-map/query"
	"github.com/SoftwarePlumbers/db-plumbing-map/store"
)

func queryRun(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: query requires one argument, an expr predicate", cli.ErrUsage)
	}
	q, err := query.New[store.Document](args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", cli.ErrUsage, err)
	}
	s, err := cfg.open()
	if err != nil {
		return err
	}
	it, err := s.FindAll(q, cfg.Params)
	if err != nil {
		return err
	}
	return printYAML(cc.Out, slices.Collect(it))
}
