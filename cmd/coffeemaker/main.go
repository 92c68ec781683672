package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/lhaig/coffeemaker/internal/ast"
	"github.com/lhaig/coffeemaker/internal/compiler"
	"github.com/lhaig/coffeemaker/internal/diagnostic"
	"github.com/lhaig/coffeemaker/internal/formatter"
	"github.com/lhaig/coffeemaker/internal/linter"
	"github.com/lhaig/coffeemaker/internal/parser"
)

const version = "0.1.0"

const usage = `coffeemaker - The CoffeeMaker to JavaScript compiler

Usage:
  coffeemaker compile <file> [kind] [-o out]   Compile a source file
  coffeemaker check <file>                     Parse and type-check only
  coffeemaker parse <file>                     Print the syntax tree
  coffeemaker lint <file>                      Run lint checks for style/best practices
  coffeemaker fmt [-w] <file>                  Print canonical source (-w rewrites the file)
  coffeemaker repl                             Compile programs interactively
  coffeemaker version                          Print the compiler version

Output kinds:
  analyzed     Typed program as JSON
  optimized    Optimized typed program as JSON
  js           JavaScript (default)
  generated    Same as js

Options:
  -o <path>    Output file; "-" writes to stdout.
               Defaults to the source path with .js or .json extension.

Environment:
  NO_COLOR     Disable coloured error output

Examples:
  coffeemaker compile latte.coffee              Write latte.js
  coffeemaker compile latte.coffee analyzed     Write latte.json
  coffeemaker compile latte.coffee js -o -      Print JavaScript to stdout
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "compile":
		handleCompile(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "parse":
		handleParse(os.Args[2:])
	case "lint":
		handleLint(os.Args[2:])
	case "fmt":
		handleFmt(os.Args[2:])
	case "repl":
		runRepl()
	case "version", "--version":
		fmt.Printf("coffeemaker %s\n", version)
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

type compileOptions struct {
	file    string
	kind    compiler.OutputKind
	outPath string
}

// parseCompileArgs reads "<file> [kind] [-o out]" in any order.
func parseCompileArgs(args []string) (compileOptions, error) {
	opts := compileOptions{kind: compiler.JS}
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-o":
			if i+1 >= len(args) {
				return opts, errors.New("-o requires a path")
			}
			i++
			opts.outPath = args[i]
		case strings.HasPrefix(arg, "-"):
			return opts, fmt.Errorf("unknown option: %s", arg)
		default:
			positional = append(positional, arg)
		}
	}

	switch len(positional) {
	case 0:
		return opts, errors.New("no input file specified")
	case 1:
	case 2:
		kind, err := compiler.ParseKind(positional[1])
		if err != nil {
			return opts, err
		}
		opts.kind = kind
	default:
		return opts, fmt.Errorf("unexpected argument: %s", positional[2])
	}

	opts.file = positional[0]
	if opts.outPath == "" {
		opts.outPath = compiler.OutputPath(opts.file, opts.kind)
	}
	return opts, nil
}

func handleCompile(args []string) {
	opts, err := parseCompileArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	source := readSource(opts.file)

	if opts.outPath == "-" {
		res, err := compiler.Compile(source, string(opts.kind))
		if err != nil {
			reportError(opts.file, err)
			os.Exit(1)
		}
		text, err := res.Text()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Print(text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Println()
		}
		return
	}

	if err := compiler.EmitToFile(source, string(opts.kind), opts.outPath); err != nil {
		reportError(opts.file, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", opts.outPath)
}

func handleCheck(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	filePath := args[0]
	if err := compiler.Check(readSource(filePath)); err != nil {
		reportError(filePath, err)
		os.Exit(1)
	}
	fmt.Println("No errors found.")
}

func handleParse(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	filePath := args[0]
	p := parser.New(readSource(filePath))
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		fmt.Fprintln(os.Stderr, colorize(p.Diagnostics().Format(filePath)))
		os.Exit(1)
	}
	fmt.Print(ast.Print(prog))
}

func handleLint(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	filePath := args[0]
	p := parser.New(readSource(filePath))
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		fmt.Fprintln(os.Stderr, colorize(p.Diagnostics().Format(filePath)))
		os.Exit(1)
	}

	warnings := linter.Lint(prog).All()
	if len(warnings) == 0 {
		fmt.Println("No lint warnings.")
		return
	}
	for i := range warnings {
		fmt.Println(warnings[i].Format(filePath))
	}
	fmt.Printf("%d warning(s) found.\n", len(warnings))
}

func handleFmt(args []string) {
	write := false
	var filePath string
	for _, arg := range args {
		switch {
		case arg == "-w":
			write = true
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
			os.Exit(1)
		default:
			filePath = arg
		}
	}
	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	p := parser.New(readSource(filePath))
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		fmt.Fprintln(os.Stderr, colorize(p.Diagnostics().Format(filePath)))
		os.Exit(1)
	}
	formatted := formatter.Format(prog)

	if !write {
		fmt.Print(formatted)
		return
	}
	if err := os.WriteFile(filePath, []byte(formatted), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Formatted %s\n", filePath)
}

func readSource(filePath string) string {
	source, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	return string(source)
}

// reportError prints err as error[file:line:col]: message when it carries a
// position, and as a plain error otherwise.
func reportError(filePath string, err error) {
	var d *diagnostic.Diagnostic
	if errors.As(err, &d) && d.Line > 0 {
		fmt.Fprintln(os.Stderr, colorize(d.Format(filePath)))
		return
	}
	fmt.Fprintln(os.Stderr, colorize("error: "+err.Error()))
}

func colorize(msg string) string {
	if !useColor() {
		return msg
	}
	return colorRed + msg + colorReset
}

func useColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return readline.IsTerminal(int(os.Stderr.Fd()))
}
