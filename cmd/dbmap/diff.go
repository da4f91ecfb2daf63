package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/SoftwarePlumbers/db-plumbing-map/collection"
	"github.com/SoftwarePlumbers/db-plumbing-map/fixture"
	"github.com/SoftwarePlumbers/db-plumbing-map/store"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := loadFixture(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	b, err := loadFixture(cfg.MainConfig, args[1])
	if err != nil {
		return err
	}
	report := collection.Diff(a.Snapshot(), b.Snapshot())
	if len(report) == 0 {
		return nil
	}
	printReport(cc.Out, cfg.colors(cc.Out), report)
	return cli.ExitCodeErr(1)
}

func loadFixture(cfg *MainConfig, path string) (*store.Store[string, store.Document], error) {
	elemType := cfg.Type
	if elemType == "" {
		elemType = "document"
	}
	s := store.NewDocumentStore(elemType)
	if _, err := fixture.Load(path, s); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

func printReport(w io.Writer, colors bool, report collection.Report[string, store.Document]) {
	sprintf := map[collection.ChangeKind]func(string, ...any) string{
		collection.Added:   fmt.Sprintf,
		collection.Removed: fmt.Sprintf,
		collection.Changed: fmt.Sprintf,
	}
	if colors {
		sprintf[collection.Added] = color.GreenString
		sprintf[collection.Removed] = color.RedString
		sprintf[collection.Changed] = color.YellowString
	}
	for _, ch := range report {
		switch ch.Kind {
		case collection.Added:
			fmt.Fprintln(w, sprintf[ch.Kind]("+ %s: %v", ch.Key, ch.To))
		case collection.Removed:
			fmt.Fprintln(w, sprintf[ch.Kind]("- %s: %v", ch.Key, ch.From))
		case collection.Changed:
			fmt.Fprintln(w, sprintf[ch.Kind]("~ %s: %v -> %v", ch.Key, ch.From, ch.To))
		}
	}
}
