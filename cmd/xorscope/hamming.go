package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/xorscope/internal/xorcrack"
)

func runHamming(args []string) int {
	fs := flag.NewFlagSet("hamming", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asHex := fs.Bool("hex", false, "treat both arguments as hex encoded bytes")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "hamming requires exactly two arguments")
		return 2
	}

	a, b := []byte(fs.Arg(0)), []byte(fs.Arg(1))
	if *asHex {
		var err error
		if a, err = hex.DecodeString(fs.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "first argument: %v\n", err)
			return 2
		}
		if b, err = hex.DecodeString(fs.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "second argument: %v\n", err)
			return 2
		}
	}
	fmt.Println(xorcrack.HammingDistance(a, b))
	return 0
}
