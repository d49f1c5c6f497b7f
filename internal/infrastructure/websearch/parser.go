package websearch

import (
	"io"
	"net/url"
	"strings"

	"github.com/msmeconnect/backend/internal/domain"
	"golang.org/x/net/html"
)

const (
	snippetClass = "result__snippet"
	titleClass   = "result__title"

	// UnknownTitle is used when a result has no preceding title heading
	UnknownTitle = "Unknown Vendor"

	redirectPrefix = "//duckduckgo.com/l/?"
)

// ParseResults extracts up to limit candidates from a DuckDuckGo HTML
// results page, in document order. Each snippet anchor becomes one
// candidate; its title is the nearest preceding result title heading.
func ParseResults(r io.Reader, limit int) ([]domain.RawCandidate, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var (
		results   []domain.RawCandidate
		lastTitle string
		walk      func(*html.Node) bool
	)

	// walk returns false once the limit is reached
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "h2" && hasClass(n, titleClass):
				lastTitle = nodeText(n)
			case n.Data == "a" && hasClass(n, snippetClass):
				title := lastTitle
				if title == "" {
					title = UnknownTitle
				}
				results = append(results, domain.RawCandidate{
					Title:   title,
					Snippet: nodeText(n),
					URL:     UnwrapRedirect(attr(n, "href")),
				})
				if len(results) >= limit {
					return false
				}
				// snippet anchors never nest titles
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}

	if limit > 0 {
		walk(doc)
	}
	return results, nil
}

// UnwrapRedirect turns a DuckDuckGo redirect link into its destination.
// Other links are returned unchanged.
func UnwrapRedirect(href string) string {
	if !strings.HasPrefix(href, redirectPrefix) {
		return href
	}
	// uddg is percent-encoded, so a literal "+" in it is part of the URL
	for _, part := range strings.Split(strings.TrimPrefix(href, redirectPrefix), "&") {
		raw, ok := strings.CutPrefix(part, "uddg=")
		if !ok || raw == "" {
			continue
		}
		dest, err := url.PathUnescape(raw)
		if err != nil {
			return href
		}
		return dest
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}
