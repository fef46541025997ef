// Command ember is the ember language's interpreter entry point.
//
// Usage:
//
//	ember            start an interactive REPL
//	ember <script>   compile and run a script file
//
// This mirrors the teacher's runFile/runREPL split in cmd/smog/main.go,
// but drops its compile/disassemble/version subcommands: spec §6 defines
// exactly these two invocation forms, with no bytecode file format to
// compile to (§6 rules out persisted state outright) and no version
// surface to report. Exit codes follow original_source/main.c's sysexits
// convention exactly, since the spec names them by value.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/kristofer/ember/pkg/vm"
)

const (
	exitUsage   = 64
	exitCompile = 65
	exitRuntime = 70
	exitIOError = 74
)

const maxLineLen = 1024

func main() {
	switch len(os.Args) {
	case 1:
		runREPL()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: ember [path]")
		os.Exit(exitUsage)
	}
}

// runFile reads path, interprets it against a fresh VM, and exits with a
// status matching spec §7's exit code contract.
func runFile(path string) {
	source, err := readFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitIOError)
	}

	v := vm.New(os.Stdout, os.Stderr)
	switch v.Interpret(source) {
	case vm.InterpretCompileError:
		os.Exit(exitCompile)
	case vm.InterpretRuntimeError:
		os.Exit(exitRuntime)
	}
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not open file %q", path)
	}
	return string(data), nil
}

// runREPL reads one line at a time from stdin and interprets each line
// against one persistent VM, so top-level variable and function
// declarations remain visible across lines, matching
// original_source/main.c's repl(). Compile and runtime errors are
// reported to stderr but never terminate the session; only EOF does.
func runREPL() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, maxLineLen), maxLineLen)
	v := vm.New(os.Stdout, os.Stderr)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		v.Interpret(scanner.Text())
	}
}
