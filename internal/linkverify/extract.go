package linkverify

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is one reference extracted from an HTML document.
type Link struct {
	URL       string // Raw attribute value
	Tag       string // Element it came from (a, img, script, link)
	Attribute string // Attribute holding the reference (href or src)
}

// extractLinks parses an HTML document and collects every href and src
// reference from the elements that can point at other site files.
func extractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", ErrVerifyFailed, err)
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if l, ok := elementLink(n); ok {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func elementLink(n *html.Node) (Link, bool) {
	var attr string
	switch n.Data {
	case "a", "link":
		attr = "href"
	case "img", "script", "source", "video", "audio":
		attr = "src"
	default:
		return Link{}, false
	}
	val := getAttr(n, attr)
	if val == "" {
		return Link{}, false
	}
	return Link{URL: val, Tag: n.Data, Attribute: attr}, true
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isVerifiable reports whether a reference should be checked against the
// output tree. External URLs, special protocols and in-page anchors are
// skipped; site verification only cares about files the build itself emitted.
func isVerifiable(raw string) bool {
	if raw == "" || strings.HasPrefix(raw, "#") {
		return false
	}
	for _, scheme := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(raw, scheme) {
			return false
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
