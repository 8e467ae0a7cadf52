package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/RowanDark/xorscope/internal/config"
	"github.com/RowanDark/xorscope/internal/reporter"
)

func runHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	file := fs.String("file", "", "history file (default from config)")
	query := fs.String("query", "", "print one field of every report (gjson path)")
	kind := fs.String("kind", "", "only show reports of this kind (crack, rank, single, detect)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "history takes no arguments")
		return 2
	}

	path := strings.TrimSpace(*file)
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			return 1
		}
		path = cfg.History
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no history file configured; pass --file or set history in the config")
		return 2
	}

	reports, err := reporter.ReadJSONL(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read history: %v\n", err)
		return 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if *query == "" {
		fmt.Fprintln(w, "ID\tKIND\tGENERATED\tSOURCE\tKEY\tSCORE")
	}
	for _, r := range reports {
		if *kind != "" && string(r.Kind) != *kind {
			continue
		}
		if *query != "" {
			value, ok, err := reporter.Query(r, *query)
			if err != nil {
				fmt.Fprintf(os.Stderr, "query %s: %v\n", r.ID, err)
				return 1
			}
			if ok {
				fmt.Fprintf(w, "%s\t%s\n", r.ID, value)
			}
			continue
		}
		key := "-"
		if r.Key != nil {
			key = r.Key.Hex
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.4f\n", r.ID, r.Kind, r.GeneratedAt.Format(time.RFC3339), r.Input.Source, key, r.Score)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
