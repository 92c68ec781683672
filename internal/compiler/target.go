package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lhaig/coffeemaker/internal/diagnostic"
)

// OutputKind selects how far Compile runs and what it produces.
type OutputKind string

const (
	Analyzed  OutputKind = "analyzed"
	Optimized OutputKind = "optimized"
	JS        OutputKind = "js"
	Generated OutputKind = "generated"
)

// Kinds lists every accepted output kind.
func Kinds() []OutputKind {
	return []OutputKind{Analyzed, Optimized, JS, Generated}
}

// ParseKind validates an output kind name.
func ParseKind(s string) (OutputKind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return "", diagnostic.Newf(diagnostic.UnknownOutputKind, 0, 0,
		"unknown output kind %q (want one of %s)", s, strings.Join(names, ", "))
}

// Generates reports whether the kind produces JavaScript.
func (k OutputKind) Generates() bool {
	return k == JS || k == Generated
}

// Extension returns the file extension for output of kind k.
func (k OutputKind) Extension() string {
	if k.Generates() {
		return ".js"
	}
	return ".json"
}

// OutputPath derives the default output file for a source file: the source
// path with its extension replaced by the kind's.
func OutputPath(sourcePath string, k OutputKind) string {
	base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	return base + k.Extension()
}

// EmitToFile compiles source and writes the rendered result to outPath.
func EmitToFile(source, kind, outPath string) error {
	res, err := Compile(source, kind)
	if err != nil {
		return err
	}
	text, err := res.Text()
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	outDir := filepath.Dir(outPath)
	if outDir != "." && outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
