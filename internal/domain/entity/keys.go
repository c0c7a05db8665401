package entity

import "strings"

// Special keys use the WebDriver private use code points, so they can be
// mixed with plain text in a single SendKeys call.
const (
	KeyBackspace = "\uE003"
	KeyTab       = "\uE004"
	KeyEnter     = "\uE007"
	KeyControl   = "\uE009"
	KeyEscape    = "\uE00C"
	KeySpace     = "\uE00D"
	KeyEnd       = "\uE010"
	KeyHome      = "\uE011"
)

// IsKey reports whether r is one of the special key code points.
func IsKey(r rune) bool { return r >= 0xE000 && r <= 0xE03D }

// HasKeys reports whether text contains any special key.
func HasKeys(text string) bool {
	return strings.IndexFunc(text, IsKey) >= 0
}

// PlainText drops the special keys from text.
func PlainText(text string) string {
	return strings.Map(func(r rune) rune {
		if IsKey(r) {
			return -1
		}
		return r
	}, text)
}
