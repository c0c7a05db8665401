package rodwrapper

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"ui-template/internal/domain/entity"
)

type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// KeepAttrs survive even when a prefix rule would drop them.
	KeepAttrs        []string
	MaxOutputSize    int
	CustomAttrFilter func(attr html.Attribute) bool
}

// DefaultCleanConfig keeps the markup a failing test needs to be debugged:
// structure, ids, classes and test ids.
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	KeepAttrs:     []string{entity.TestIDAttribute},
	MaxOutputSize: 2 << 20,
}

// CleanHTML strips noise from a page source before it is stored. On parse
// failure the input is returned unchanged.
func CleanHTML(rawHTML string, cfg *CleanConfig) string {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	body := findBodyNode(doc)
	if body == nil {
		return rawHTML
	}

	cleanNode(body, cfg)

	result := renderNode(body)
	result = truncateHTML(result, cfg.MaxOutputSize)

	return result
}

func findBodyNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

// cleanNode drops comments and unwanted tags below n and filters the
// attributes of the elements that stay.
func cleanNode(n *html.Node, cfg *CleanConfig) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool { return dropAttr(a, cfg) })

	var doomed []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.CommentNode:
			doomed = append(doomed, c)
		case c.Type != html.ElementNode:
		case slices.Contains(cfg.TagsToRemove, c.Data):
			doomed = append(doomed, c)
		default:
			cleanNode(c, cfg)
		}
	}
	for _, c := range doomed {
		n.RemoveChild(c)
	}
}

func dropAttr(a html.Attribute, cfg *CleanConfig) bool {
	switch {
	case slices.Contains(cfg.KeepAttrs, a.Key):
		return false
	case slices.Contains(cfg.AttrsToRemove, a.Key):
		return true
	case strings.HasPrefix(a.Key, "data-"), strings.HasPrefix(a.Key, "aria-"), strings.HasPrefix(a.Key, "on"):
		return true
	}
	return cfg.CustomAttrFilter != nil && cfg.CustomAttrFilter(a)
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

func truncateHTML(htmlStr string, maxSize int) string {
	if maxSize > 0 && len(htmlStr) > maxSize {
		return htmlStr[:maxSize] + "\n<!-- page source truncated -->"
	}
	return htmlStr
}
