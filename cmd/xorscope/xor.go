package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/RowanDark/xorscope/internal/cipher"
)

func runXor(args []string) int {
	fs := flag.NewFlagSet("xor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	key := fs.String("key", "", "repeating key as text")
	keyHex := fs.String("key-hex", "", "repeating key as hex")
	encoding := fs.String("encoding", cipher.EncodingRaw, "input encoding: auto, hex, base64 or raw")
	output := fs.String("output", cipher.EncodingHex, "output encoding: hex, base64 or raw")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "xor requires exactly one input file (use - for stdin)")
		return 2
	}
	if (*key == "") == (*keyHex == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --key or --key-hex is required")
		return 2
	}
	if _, err := cipher.ParseEncoding(*encoding); err != nil {
		fmt.Fprintf(os.Stderr, "--encoding: %v\n", err)
		return 2
	}

	params := map[string]interface{}{}
	if *keyHex != "" {
		params["key_hex"] = *keyHex
	} else {
		params["key"] = *key
	}

	ops := []string{"repeating_xor"}
	switch strings.ToLower(strings.TrimSpace(*output)) {
	case cipher.EncodingHex:
		ops = append(ops, "hex_encode")
	case cipher.EncodingBase64:
		ops = append(ops, "base64_encode")
	case cipher.EncodingRaw:
	default:
		fmt.Fprintf(os.Stderr, "unsupported --output %q\n", *output)
		return 2
	}

	ctx := context.Background()
	raw, err := readSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	data, _, err := cipher.DecodeInput(ctx, raw, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode input: %v\n", err)
		return 1
	}

	out, err := cipher.ParsePipeline(ops, params).Execute(ctx, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xor: %v\n", err)
		return 1
	}
	writeOutput(out)
	return 0
}

// writeOutput prints data, ending text output with a newline.
func writeOutput(data []byte) {
	_, _ = os.Stdout.Write(data)
	if isText(data) && len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
}

func isText(data []byte) bool {
	for _, b := range data {
		if b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}
