package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/RowanDark/xorscope/internal/cipher"
)

func runOps(args []string) int {
	fs := flag.NewFlagSet("ops", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opType := fs.String("type", "", "only list operations of this type (encode, decode, encrypt)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "ops takes no arguments")
		return 2
	}

	ops := cipher.ListOperations()
	if t := strings.TrimSpace(*opType); t != "" {
		ops = cipher.ListOperationsByType(cipher.OperationType(strings.ToLower(t)))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tREVERSE\tDESCRIPTION")
	for _, op := range ops {
		reverse := "-"
		if rev, ok := op.Reverse(); ok {
			reverse = rev.Name()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.Name(), op.Type(), reverse, op.Description())
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
