package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"lox/internal"
)

type stdPrinter struct{}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Println(a...)
}

func (s stdPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(w, format, a...)
}

func (s stdPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(w, a...)
}

func main() {
	debug := flag.Bool("debug", false, "trace compilation and execution")
	useVM := flag.Bool("vm", false, "run the file on the bytecode back end")
	flag.Parse()

	internal.SetDebug(*debug)

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: lox [path]")
		os.Exit(internal.ExitUsage)
	}

	if len(args) == 0 {
		internal.RunPrompt(os.Stdin, stdPrinter{})
		return
	}

	if *useVM {
		os.Exit(internal.RunFileVM(args[0], stdPrinter{}))
	}
	os.Exit(internal.RunFile(args[0], stdPrinter{}))
}
