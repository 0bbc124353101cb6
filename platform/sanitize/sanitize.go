// Package sanitize provides text clean-up for content produced by external services.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

	// codeFenceRegex matches fenced code block markers
	codeFenceRegex = regexp.MustCompile("(?m)^[ \\t]*```[a-zA-Z0-9_-]*[ \\t]*$")

	// headingRegex matches markdown heading and quote markers at line start
	headingRegex = regexp.MustCompile(`(?m)^[ \t]{0,3}(#{1,6}|>)[ \t]*`)

	// bulletRegex matches list bullets at line start
	bulletRegex = regexp.MustCompile(`(?m)^[ \t]*([-*+]|\d+[.)])[ \t]+`)

	// linkRegex matches [text](url) and keeps the text
	linkRegex = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)

	// emphasisRegex matches emphasis and inline code markers
	emphasisRegex = regexp.MustCompile("(\\*{1,3}|_{2,3}|~~|`)")

	spaceRegex = regexp.MustCompile(`[ \t]+`)
	blankRegex = regexp.MustCompile(`\n{2,}`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Speech turns a markdown-formatted answer into plain sentences for a
// synthesis engine, so markup characters are not read aloud.
func Speech(s string) string {
	result := StripHTML(s)
	result = codeFenceRegex.ReplaceAllString(result, "")
	result = linkRegex.ReplaceAllString(result, "$1")
	result = headingRegex.ReplaceAllString(result, "")
	result = bulletRegex.ReplaceAllString(result, "")
	result = emphasisRegex.ReplaceAllString(result, "")
	result = spaceRegex.ReplaceAllString(result, " ")
	result = blankRegex.ReplaceAllString(result, "\n")
	return strings.TrimSpace(result)
}
