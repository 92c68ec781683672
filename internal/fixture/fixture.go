// Package fixture reads compiler test cases from Markdown documents.
//
// Each case starts at a heading "Test: <name>" and is followed by one
// coffeemaker fence holding the program and one or more assertion fences:
//
//	js            generated JavaScript without optimization
//	js-optimized  generated JavaScript after optimization
//	error         expected failure, as "Kind" or "Kind: message fragment"
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputLanguage is the fence language of a case's program.
const InputLanguage = "coffeemaker"

// AssertionType is the fence language of an assertion.
type AssertionType string

const (
	AssertJS          AssertionType = "js"
	AssertOptimizedJS AssertionType = "js-optimized"
	AssertError       AssertionType = "error"
)

// Assertion is one expected outcome of a case.
type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

// Case is a single test case.
type Case struct {
	Name       string
	Source     string
	Line       int
	Assertions []Assertion
}

// Load reads and extracts the cases of a Markdown file.
func Load(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Extract(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Extract parses a Markdown document and returns its cases in order.
func Extract(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case

	finish := func() error {
		if current == nil {
			return nil
		}
		if current.Source == "" {
			return fmt.Errorf("test '%s' has no %s fence", current.Name, InputLanguage)
		}
		if len(current.Assertions) == 0 {
			return fmt.Errorf("test '%s' has no assertion fences", current.Name)
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{Name: strings.TrimPrefix(heading, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := strings.TrimRight(blockContent(n, source), "\n")
			line := lineOf(n, source)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of a test", line, language)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case language == InputLanguage:
				if current.Source != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple %s fences in test '%s'", line, InputLanguage, current.Name)
				}
				current.Source = content
				current.Line = line
			case isAssertion(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: content,
					Line:    line,
				})
			case language != "":
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

func isAssertion(language string) bool {
	switch AssertionType(language) {
	case AssertJS, AssertOptimizedJS, AssertError:
		return true
	}
	return false
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line of a block's first content line.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:start], []byte("\n")) + 1
}
