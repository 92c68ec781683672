package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/lhaig/coffeemaker/internal/compiler"
	"github.com/lhaig/coffeemaker/internal/diagnostic"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

const (
	mainPrompt = "coffee> "
	contPrompt = "...     "
)

// runRepl reads programs line by line and prints the JavaScript each one
// compiles to. A line with more opening than closing braces continues onto
// the next line.
func runRepl() {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".coffeemaker_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            colorGreen + mainPrompt + colorReset,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%scoffeemaker %s%s %s(type 'exit' or Ctrl+D to quit)%s\n\n",
		colorBold, colorCyan, version, colorReset, colorGray, colorReset)

	var buf replBuffer
	for {
		if buf.pending() {
			rl.SetPrompt(colorGray + contPrompt + colorReset)
		} else {
			rl.SetPrompt(colorGreen + mainPrompt + colorReset)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if buf.pending() {
					buf.reset()
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if !buf.pending() && strings.TrimSpace(line) == "exit" {
			break
		}

		source, ok := buf.add(line)
		if !ok || strings.TrimSpace(source) == "" {
			continue
		}

		js, err := compileLine(source)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "%s%s%s\n", colorRed, err, colorReset)
			continue
		}
		fmt.Fprint(rl.Stdout(), js)
	}
}

// replBuffer accumulates lines until the braces balance.
type replBuffer struct {
	sb    strings.Builder
	depth int
}

// add appends line and returns the accumulated program once it is complete.
func (b *replBuffer) add(line string) (string, bool) {
	b.depth += strings.Count(line, "{") - strings.Count(line, "}")
	b.sb.WriteString(line)
	b.sb.WriteString("\n")
	if b.depth > 0 {
		return "", false
	}
	source := b.sb.String()
	b.reset()
	return source, true
}

func (b *replBuffer) pending() bool { return b.depth > 0 }

func (b *replBuffer) reset() {
	b.sb.Reset()
	b.depth = 0
}

// compileLine compiles one REPL entry to JavaScript. Errors are rendered
// against the pseudo file "<repl>".
func compileLine(source string) (string, error) {
	res, err := compiler.Compile(source, string(compiler.JS))
	if err != nil {
		var d *diagnostic.Diagnostic
		if errors.As(err, &d) && d.Line > 0 {
			return "", errors.New(d.Format("<repl>"))
		}
		return "", err
	}
	return res.JS, nil
}
