package main

import (
	"flag"
	"fmt"
	"os"
)

const productName = "xorscope"
const cliBanner = productName + " - repeating-key XOR analysis"

var showVersion = flag.Bool("version", false, "print version and exit")

func init() {
	defaultUsage := flag.Usage
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, cliBanner)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage: xorscope <command> [flags] [args]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  crack     recover a repeating XOR key and decrypt")
		fmt.Fprintln(out, "  rank      rank candidate key lengths")
		fmt.Fprintln(out, "  single    recover a single-byte XOR key")
		fmt.Fprintln(out, "  detect    find the single-byte XOR line in a file of hex lines")
		fmt.Fprintln(out, "  xor       apply a repeating XOR key")
		fmt.Fprintln(out, "  convert   run an operation pipeline")
		fmt.Fprintln(out, "  hamming   bitwise Hamming distance of two strings")
		fmt.Fprintln(out, "  ops       list registered operations")
		fmt.Fprintln(out, "  history   list saved reports")
		fmt.Fprintln(out, "  version   print version")
		fmt.Fprintln(out)
		if defaultUsage != nil {
			defaultUsage()
		}
	}
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(versionString())
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(run(args))
}

func run(args []string) int {
	switch args[0] {
	case "crack":
		return runCrack(args[1:])
	case "rank":
		return runRank(args[1:])
	case "single":
		return runSingle(args[1:])
	case "detect":
		return runDetect(args[1:])
	case "xor":
		return runXor(args[1:])
	case "convert":
		return runConvert(args[1:])
	case "hamming":
		return runHamming(args[1:])
	case "ops":
		return runOps(args[1:])
	case "history":
		return runHistory(args[1:])
	case "version":
		return runVersion(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		return 2
	}
}
