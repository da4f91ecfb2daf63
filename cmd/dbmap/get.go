package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/SoftwarePlumbers/db-plumbing-map/store"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: get requires one argument, a key", cli.ErrUsage)
	}
	s, err := cfg.open()
	if err != nil {
		return err
	}
	doc, err := s.Find(args[0])
	if err != nil {
		if store.IsNotFound(err) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return cli.ExitCodeErr(1)
		}
		return err
	}
	return printJSON(cc.Out, doc)
}
