package session

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"

	"github.com/hyperbrowserai/hyperagent-go/api/schemas"
)

// Snapshot captures the current page and distills it into an inventory of
// interactive elements. The element refs are positional within this snapshot;
// a navigation invalidates them.
func (s *Session) Snapshot(ctx context.Context) (*schemas.PageSnapshot, error) {
	snap := &schemas.PageSnapshot{}

	var domHTML string
	err := s.run(ctx,
		// Location and Title come from the browser, not the parsed DOM, so
		// the snapshot stays correct for pages that rewrite document.title.
		chromedp.Location(&snap.URL),
		chromedp.Title(&snap.Title),
		chromedp.OuterHTML("html", &domHTML),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture page for snapshot: %w", err)
	}

	elements, err := parseInteractive(domHTML)
	if err != nil {
		return nil, err
	}
	snap.Elements = elements
	return snap, nil
}

// parseInteractive walks the serialized DOM and collects elements an agent
// could plausibly act on.
func parseInteractive(domHTML string) ([]schemas.PageElement, error) {
	doc, err := html.Parse(strings.NewReader(domHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse DOM snapshot: %w", err)
	}

	var elements []schemas.PageElement
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if el, ok := classify(n); ok {
				el.Ref = fmt.Sprintf("@e%d", len(elements)+1)
				elements = append(elements, el)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return elements, nil
}

// classify maps an element node to a snapshot entry, or reports false for
// non-interactive nodes.
func classify(n *html.Node) (schemas.PageElement, bool) {
	var el schemas.PageElement

	switch strings.ToLower(n.Data) {
	case "a":
		href := attr(n, "href")
		if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return el, false
		}
		el.Role = schemas.RoleLink
		el.Href = href
	case "button":
		el.Role = schemas.RoleButton
	case "input":
		inputType := strings.ToLower(attr(n, "type"))
		if inputType == "hidden" {
			return el, false
		}
		el.Role = schemas.RoleInput
		if inputType == "submit" || inputType == "button" {
			el.Role = schemas.RoleButton
		}
	case "select":
		el.Role = schemas.RoleSelect
	case "textarea":
		el.Role = schemas.RoleTextarea
	default:
		return el, false
	}

	el.Name = elementName(n)
	return el, true
}

// elementName derives a human-readable label for an element, preferring
// explicit accessibility attributes over inner text.
func elementName(n *html.Node) string {
	for _, key := range []string{"aria-label", "title", "placeholder", "name", "value"} {
		if v := strings.TrimSpace(attr(n, key)); v != "" {
			return collapseSpace(v)
		}
	}
	return collapseSpace(innerText(n))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func innerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(x *html.Node)
	walk = func(x *html.Node) {
		if x.Type == html.TextNode {
			sb.WriteString(x.Data)
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func collapseSpace(s string) string {
	const maxNameLen = 80
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxNameLen {
		// Cut on a rune boundary; a torn multi-byte sequence would emit
		// invalid UTF-8.
		cut := maxNameLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
