package main

import (
	"errors"
	"io"
	"strings"

	"github.com/target/jobboard-api/internal/bootstrap"
	"github.com/target/jobboard-api/internal/domain/taxonomy"
)

func runTaxonomy(cmdCtx *commandContext, args []string) error {
	if len(args) != 0 {
		return errors.New("usage: jobboard-admin taxonomy")
	}
	catalog, err := bootstrap.LoadCatalog(cmdCtx.Config.Catalog, cmdCtx.Logger)
	if err != nil {
		return err
	}
	return printCatalog(cmdCtx.Out, catalog)
}

func printCatalog(w io.Writer, catalog *taxonomy.Catalog) error {
	if err := writeln(w, "Categories:"); err != nil {
		return err
	}
	for _, g := range catalog.Categories.Groups() {
		if err := writef(w, "  %s\n", g.Name); err != nil {
			return err
		}
		for _, label := range g.Labels {
			if err := writef(w, "    %s\n", label); err != nil {
				return err
			}
		}
	}

	if err := writeln(w, "\nContinents:"); err != nil {
		return err
	}
	for _, key := range catalog.Continents.Keys() {
		codes, _ := catalog.Continents.Codes(key)
		if err := writef(w, "  %-14s %s\n", key, strings.Join(codes, ",")); err != nil {
			return err
		}
	}
	return nil
}
