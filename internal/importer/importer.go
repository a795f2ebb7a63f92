// Package importer turns web pages into schema-conforming document stubs.
package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/starford/raido/internal/routes"
	"github.com/starford/raido/internal/schema"
)

// Fetch downloads a page, extracts the node matched by selector, and
// converts it to Markdown. Selector accepts "#id", ".class", or a bare tag
// name.
func Fetch(ctx context.Context, url, selector string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("importer: build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("importer: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("importer: fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("importer: read body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("importer: parse HTML: %w", err)
	}

	node, err := selectNode(doc, selector)
	if err != nil {
		return "", err
	}

	md, err := htmltomarkdown.ConvertNode(node)
	if err != nil {
		return "", fmt.Errorf("importer: convert to markdown: %w", err)
	}
	return string(md), nil
}

// Scaffold prepends a front-matter stub derived from the route's field
// schema: one line per field with a kind-appropriate placeholder value. The
// result passes the route's validation as-is, so it can go through the
// normal fail-closed write path.
func Scaffold(route *routes.Route, markdown string) string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range route.Fields {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(placeholder(schema.ParseKind(f.Kind)))
		b.WriteByte('\n')
	}
	b.WriteString("---\n")
	b.WriteString(markdown)
	if !strings.HasSuffix(markdown, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}

func placeholder(k schema.Kind) string {
	switch k {
	case schema.KindNumber:
		return "0"
	case schema.KindBoolean:
		return "false"
	case schema.KindDate:
		return time.Now().Format("2006-01-02")
	case schema.KindStringList:
		return "[]"
	default:
		return `""`
	}
}

// selectNode resolves a simplified CSS-style selector against the parsed
// document.
func selectNode(doc *html.Node, selector string) (*html.Node, error) {
	var match func(*html.Node) bool
	switch {
	case strings.HasPrefix(selector, "#"):
		id := strings.TrimPrefix(selector, "#")
		match = func(n *html.Node) bool { return attrValue(n, "id") == id }
	case strings.HasPrefix(selector, "."):
		class := strings.TrimPrefix(selector, ".")
		match = func(n *html.Node) bool {
			return strings.Contains(attrValue(n, "class"), class)
		}
	default:
		match = func(n *html.Node) bool { return n.Data == selector }
	}

	if found := find(doc, match); found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("importer: no element matches selector %q", selector)
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
