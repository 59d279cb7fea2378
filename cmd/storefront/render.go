package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

const defaultWidth = 80

func productsMarkdown(items []catalog.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Products (%d)\n\n", len(items))
	if len(items) == 0 {
		b.WriteString("_The catalog is empty._\n")
		return b.String()
	}

	b.WriteString("| ID | Title | Category | Price |\n")
	b.WriteString("|---:|---|---|---:|\n")
	for _, it := range items {
		fmt.Fprintf(&b, "| %d | %s | %s | %.2f |\n", it.ID, cell(it.Title), cell(it.Category), it.Price)
	}
	return b.String()
}

// cell keeps a value on one table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// renderMarkdown styles md for the terminal. An empty style picks one from the
// terminal background.
func renderMarkdown(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
