// Package catalog renders a unit registry as a Markdown or HTML reference.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sambeau/unitconv/pkg/units"
)

var wordBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// Heading turns a category name into a display heading, e.g.
// "DataRate" -> "Data Rate".
func Heading(name units.CategoryName) string {
	spaced := wordBoundary.ReplaceAllString(string(name), "$1 $2")
	return cases.Title(language.English, cases.NoLower).String(spaced)
}

// Markdown writes one section per category with an id/label/factor/dimension
// table, in declaration order.
func Markdown(w io.Writer, r *units.Registry) error {
	var sb strings.Builder
	sb.WriteString("# Unit catalog\n\n")

	categories := r.Categories()
	fmt.Fprintf(&sb, "%d categories, %d units.\n\n", len(categories), len(r.Units()))

	for _, c := range categories {
		fmt.Fprintf(&sb, "## %s\n\n", Heading(c.Name))
		if len(c.Units) == 0 {
			sb.WriteString("No units.\n\n")
			continue
		}
		sb.WriteString("| ID | Label | Factor | Dimension |\n")
		sb.WriteString("|----|-------|--------|-----------|\n")
		for _, u := range c.Units {
			factor := "n/a"
			if f, ok := u.Factor(); ok {
				factor = f.String()
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n",
				u.ID, escapeCell(u.Label), factor, escapeCell(u.Dimension))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// HTML renders the Markdown catalog with goldmark.
func HTML(w io.Writer, r *units.Registry) error {
	var src bytes.Buffer
	if err := Markdown(&src, r); err != nil {
		return err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	if err := md.Convert(src.Bytes(), w); err != nil {
		return fmt.Errorf("rendering catalog: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
