package websearch

import (
	"fmt"
	"io"
	"strings"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/pkg/store"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLToText returns the visible text of a page: trimmed text nodes joined by one space,
// skipping script, style and noscript content.
func HTMLToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(parts, " "), nil
}

// Placeholder is returned when the web had nothing usable
func Placeholder() store.WebResult {
	return store.WebResult{
		Text: constant.NoWebInformationText,
		URL:  constant.NoWebInformationURL,
	}
}

// IsPlaceholderOnly reports whether results carry no real web information
func IsPlaceholderOnly(results []store.WebResult) bool {
	for _, r := range results {
		if r != Placeholder() {
			return false
		}
	}
	return true
}
