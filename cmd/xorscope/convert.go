package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/RowanDark/xorscope/internal/cipher"
)

func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opsRaw := fs.String("ops", "", "comma separated operations, e.g. hex_decode,base64_encode")
	key := fs.String("key", "", "key parameter for repeating_xor (text) or single_xor (number)")
	keyHex := fs.String("key-hex", "", "key_hex parameter for repeating_xor")
	with := fs.String("with", "", "hex buffer for fixed_xor")
	reverse := fs.Bool("reverse", false, "run the inverse pipeline")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "convert requires exactly one input file (use - for stdin)")
		return 2
	}
	names := strings.Split(*opsRaw, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}

	params := map[string]interface{}{}
	if *key != "" {
		params["key"] = *key
	}
	if *keyHex != "" {
		params["key_hex"] = *keyHex
	}
	if *with != "" {
		params["with"] = *with
	}

	pipeline := cipher.ParsePipeline(names, params)
	if len(pipeline.Operations) == 0 {
		fmt.Fprintln(os.Stderr, "--ops must name at least one operation (see xorscope ops)")
		return 2
	}
	for _, op := range pipeline.Operations {
		if _, ok := cipher.GetOperation(op.Name); !ok {
			fmt.Fprintf(os.Stderr, "unknown operation: %s\n", op.Name)
			return 2
		}
	}
	if *reverse {
		reversed, err := pipeline.Reverse()
		if err != nil {
			fmt.Fprintf(os.Stderr, "reverse pipeline: %v\n", err)
			return 2
		}
		pipeline = reversed
	}

	input, err := readSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	out, err := pipeline.Execute(context.Background(), input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		return 1
	}
	writeOutput(out)
	return 0
}
