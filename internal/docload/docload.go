// Package docload reads paper documents from disk. HTML files are reduced
// to their visible text; everything else is treated as plain text.
package docload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Document is one loaded paper.
type Document struct {
	PaperID string
	Title   string
	Text    string
}

// Load reads a document from path. The paper id is the file name without
// its extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	paperID := strings.TrimSuffix(base, filepath.Ext(base))

	text := string(data)
	if ext == ".html" || ext == ".htm" {
		text = StripHTML(text)
	}

	return &Document{
		PaperID: paperID,
		Title:   paperID,
		Text:    text,
	}, nil
}

// StripHTML extracts visible text from HTML, skipping scripts/styles.
// Parse failures fall back to the raw input.
func StripHTML(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}
