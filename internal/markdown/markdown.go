// Package markdown flattens a markdown document into speakable chunks,
// one per block, for reading a file aloud.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New()

// Flatten parses source and returns one chunk of plain text per block,
// in document order. Code blocks are skipped; reading code aloud
// character by character helps nobody.
func Flatten(source string) []string {
	src := []byte(source)
	doc := parser.Parser().Parse(text.NewReader(src))

	var chunks []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		chunks = append(chunks, flattenBlock(node, src)...)
	}
	return chunks
}

func flattenBlock(node ast.Node, src []byte) []string {
	switch n := node.(type) {
	case *ast.Heading:
		if content := extractText(n, src); content != "" {
			return []string{content}
		}

	case *ast.Paragraph, *ast.TextBlock:
		if content := extractText(node, src); content != "" {
			return []string{content}
		}

	case *ast.Blockquote:
		var chunks []string
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			for _, inner := range flattenBlock(child, src) {
				chunks = append(chunks, "Quote: "+inner)
			}
		}
		return chunks

	case *ast.List:
		var chunks []string
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if content := extractText(item, src); content != "" {
				chunks = append(chunks, "Item: "+content)
			}
		}
		return chunks

	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.ThematicBreak, *ast.HTMLBlock:
		// Not speakable.
	}
	return nil
}

// extractText collects the plain text under a node, joining inline
// fragments with spaces where blocks nest.
func extractText(node ast.Node, src []byte) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			// Skipped even when nested in list items or quotes.
		default:
			inner := extractText(c, src)
			if inner != "" {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
					sb.WriteByte(' ')
				}
				sb.WriteString(inner)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
