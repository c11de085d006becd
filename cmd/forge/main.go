// forge compiles and runs Forth-family source into bytecode and executes
// it against the forge interpreter.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/forge-lang/forge/forge"
	"github.com/forge-lang/forge/internal/shell"
)

const version = "0.1.0"

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `Forge v%s

USAGE:
    %s [OPTIONS]

DESCRIPTION:
    Forge compiles and runs Forth-family source into bytecode and executes
    it against the forge interpreter. Without any flags, it starts an
    interactive shell.

OPTIONS:
    -f, --file <path>       Execute a source file
    -e, --eval <code>       Evaluate source text
    -c, --load <path>       Run a previously compiled bytecode image
    -d, --debug             Print the top of stack after a successful -f/-e/-c run
    -v, --version           Show version information
    -h, --help              Show this help message

EXAMPLES:
    # Start the interactive shell
    %s

    # Execute a script file
    %s -f script.forge

    # Evaluate an expression
    %s -e "3 4 + ."

    # Run a compiled bytecode image
    %s -c script.fc

`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "Execute a source file")
	evalFlag := flag.String("eval", "", "Evaluate source text")
	loadFlag := flag.String("load", "", "Run a previously compiled bytecode image")
	debugFlag := flag.Bool("debug", false, "Print the top of stack after a successful -f/-e/-c run")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(fileFlag, "f", "", "Execute a source file")
	flag.StringVar(evalFlag, "e", "", "Evaluate source text")
	flag.StringVar(loadFlag, "c", "", "Run a previously compiled bytecode image")
	flag.BoolVar(debugFlag, "d", false, "Print the top of stack after a successful -f/-e/-c run")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("Forge v%s\n", version)
		return
	}

	if *fileFlag != "" {
		executeFile(*fileFlag, *debugFlag)
		return
	}

	if *evalFlag != "" {
		evaluateExpression(*evalFlag, *debugFlag)
		return
	}

	if *loadFlag != "" {
		runCompiled(*loadFlag, *debugFlag)
		return
	}

	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	shell.Start(username, shell.Options{Debug: *debugFlag})
}

// executeFile reads and executes a source file.
func executeFile(filename string, debug bool) {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		fmt.Printf("Error getting absolute path: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Executing file: %s\n", absolute)

	//nolint:gosec // We're not reading user input here
	content, err := os.ReadFile(absolute)
	if err != nil {
		fmt.Printf("Error reading file: %s\n", err)
		os.Exit(1)
	}

	interp := forge.New()
	interp.AddSearchPath(filepath.Dir(absolute))
	if err := interp.ProcessSource(absolute, string(content)); err != nil {
		fmt.Printf("%s\n", err)
		os.Exit(interp.ExitCode() + 1)
	}
	printTopIfDebug(interp, debug)
	os.Exit(interp.ExitCode())
}

// evaluateExpression evaluates a single line of source.
func evaluateExpression(src string, debug bool) {
	interp := forge.New()
	if err := interp.ProcessSource("-e", src); err != nil {
		fmt.Printf("%s\n", err)
		os.Exit(1)
	}
	printTopIfDebug(interp, debug)
}

// runCompiled loads and executes a bytecode image previously written by
// forge.CompileBytes (see bytecode.Program's gob-encoded envelope, §6).
func runCompiled(filename string, debug bool) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading bytecode image: %s\n", err)
		os.Exit(1)
	}
	code, err := forge.LoadBytes(data)
	if err != nil {
		fmt.Printf("Error decoding bytecode image: %s\n", err)
		os.Exit(1)
	}

	interp := forge.New()
	if err := interp.ExecuteCode(filename, code, false); err != nil {
		fmt.Printf("%s\n", err)
		os.Exit(1)
	}
	printTopIfDebug(interp, debug)
}

func printTopIfDebug(interp *forge.Interpreter, debug bool) {
	if !debug || interp.Depth() == 0 {
		return
	}
	top, err := interp.Pop()
	if err != nil {
		return
	}
	fmt.Println(top.Inspect())
}
