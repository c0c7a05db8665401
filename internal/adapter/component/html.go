package component

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var whitespace = regexp.MustCompile(`\s+`)

// ownText returns the first non-blank text that is a direct child of an
// element in outerHTML, ignoring text of descendants. Runs of whitespace are
// collapsed to one space.
func ownText(outerHTML string) string {
	doc, err := html.Parse(strings.NewReader(outerHTML))
	if err != nil {
		return ""
	}
	body := bodyOf(doc)
	if body == nil {
		return ""
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(firstOwnText(body), " "))
}

func bodyOf(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := bodyOf(c); b != nil {
			return b
		}
	}
	return nil
}

func firstOwnText(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		for t := c.FirstChild; t != nil; t = t.NextSibling {
			if t.Type == html.TextNode && strings.TrimSpace(t.Data) != "" {
				return t.Data
			}
		}
		if s := firstOwnText(c); s != "" {
			return s
		}
	}
	return ""
}

// indexOfClass returns the position, among its sibling elements, of the first
// element in innerHTML carrying className, or -1.
func indexOfClass(innerHTML, className string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(innerHTML))
	if err != nil {
		return -1
	}
	sel := doc.Find("." + className).First()
	if sel.Length() == 0 {
		return -1
	}
	return sel.Index()
}
