package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrXHTMLConversion indicates an HTML fragment could not be re-serialized.
var ErrXHTMLConversion = errors.New("XHTML normalization failed")

// ToXHTML re-serializes an HTML body fragment so it is well-formed XML:
// void elements are self-closed, attributes quoted, entities resolved.
// <style> and <script> elements are dropped since EPUB readers reject
// them in body content.
func ToXHTML(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrXHTMLConversion, err)
	}

	var b strings.Builder
	for _, n := range nodes {
		pruneRawText(n)
		if isRawText(n) {
			continue
		}
		if err := html.Render(&b, n); err != nil {
			return "", fmt.Errorf("%w: %v", ErrXHTMLConversion, err)
		}
	}
	return b.String(), nil
}

func isRawText(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Style || n.DataAtom == atom.Script)
}

// pruneRawText removes style and script descendants of n.
func pruneRawText(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isRawText(c) {
			n.RemoveChild(c)
		} else {
			pruneRawText(c)
		}
		c = next
	}
}
