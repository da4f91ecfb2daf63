package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/SoftwarePlumbers/db-plumbing-map/fixture"
	"github.com/SoftwarePlumbers/db-plumbing-map/store"
)

type MainConfig struct {
	File  string `cli:"name=f aliases=file desc='fixture file holding the collection'"`
	Type  string `cli:"name=type desc='element type tag for stored documents'"`
	Color bool   `cli:"name=color desc='force color in diff output'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// open loads the fixture file into a fresh document store.
func (cfg *MainConfig) open() (*store.Store[string, store.Document], error) {
	if cfg.File == "" {
		return nil, fmt.Errorf("%w: no fixture file, use -f", cli.ErrUsage)
	}
	elemType := cfg.Type
	if elemType == "" {
		elemType = "document"
	}
	s := store.NewDocumentStore(elemType)
	if _, err := fixture.Load(cfg.File, s); err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfg.File, err)
	}
	return s, nil
}

func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func printJSON(w io.Writer, v any) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", d)
	return err
}

func printYAML(w io.Writer, docs []store.Document) error {
	d, err := yaml.Marshal(docs)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type ListConfig struct {
	*MainConfig

	List *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Params map[string]any

	Query *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='do not write the patched collection'"`

	Patch *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type RemoveConfig struct {
	*MainConfig
	Query string `cli:"name=q desc='remove by query instead of key'"`

	Remove *cli.Command
}
