package util

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
)

// markdown renderer matching the report format the prompts ask for: GFM
// tables, fenced code, and newline-to-break so single newlines survive.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

// RenderMarkdown converts model output to the HTML fragment stored and
// served per section.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText extracts the text content of an HTML fragment, collapsing runs
// of whitespace to single spaces.
func PlainText(fragment string) string {
	z := xhtml.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		if tt == xhtml.TextToken {
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
	return collapseSpace(b.String())
}

// PlainPreview bounds the plain text of a report to max runes, appending an
// ellipsis marker only when something was cut.
func PlainPreview(fragment string, max int) string {
	text := PlainText(fragment)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

// FormatText renders an HTML fragment as readable terminal text. Block
// structure survives: headings get an underline, paragraphs a blank line,
// list items a bullet, table rows a pipe separator. Inline markup is
// dropped.
func FormatText(fragment string) string {
	doc, err := xhtml.Parse(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}

	var b strings.Builder
	writeBlocks(&b, doc)

	out := strings.TrimSpace(b.String())
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return out
}

func writeBlocks(b *strings.Builder, n *xhtml.Node) {
	if n.Type == xhtml.TextNode {
		if text := collapseSpace(n.Data); text != "" {
			b.WriteString(text + "\n")
		}
		return
	}
	if n.Type == xhtml.ElementNode {
		switch n.Data {
		case "script", "style", "head":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			text := inlineText(n)
			b.WriteString("\n" + text + "\n")
			b.WriteString(strings.Repeat("─", headingRuleWidth(text)) + "\n\n")
			return
		case "p":
			b.WriteString(inlineText(n) + "\n\n")
			return
		case "li":
			b.WriteString("• " + inlineText(n) + "\n")
			return
		case "tr":
			b.WriteString(rowText(n) + "\n")
			return
		case "pre":
			for _, line := range strings.Split(strings.Trim(rawText(n), "\n"), "\n") {
				b.WriteString("    " + line + "\n")
			}
			b.WriteString("\n")
			return
		case "blockquote":
			b.WriteString("▏ " + inlineText(n) + "\n\n")
			return
		case "hr":
			b.WriteString("────\n\n")
			return
		case "ul", "ol", "table":
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeBlocks(b, c)
			}
			b.WriteString("\n")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeBlocks(b, c)
	}
}

// inlineText flattens an inline subtree, honoring <br> as a newline.
func inlineText(n *xhtml.Node) string {
	var b strings.Builder
	var walk func(*xhtml.Node)
	walk = func(node *xhtml.Node) {
		if node.Type == xhtml.ElementNode && node.Data == "br" {
			b.WriteByte('\n')
			return
		}
		if node.Type == xhtml.TextNode {
			b.WriteString(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = collapseSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func rowText(n *xhtml.Node) string {
	var cells []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, inlineText(c))
		}
	}
	return strings.Join(cells, " │ ")
}

func rawText(n *xhtml.Node) string {
	var b strings.Builder
	var walk func(*xhtml.Node)
	walk = func(node *xhtml.Node) {
		if node.Type == xhtml.TextNode {
			b.WriteString(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func headingRuleWidth(text string) int {
	width := len([]rune(text))
	if width < 4 {
		width = 4
	}
	if width > 40 {
		width = 40
	}
	return width
}

func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
