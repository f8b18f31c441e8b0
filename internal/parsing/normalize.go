// Package parsing provides text normalization for listing descriptions and canonicalization of
// user-declared skill names against the skill dictionaries.
package parsing

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tagPattern is the fallback used when markup cannot be parsed
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// NormalizeText lowercases raw description text, strips HTML markup, replaces every character
// that is not a letter, digit, underscore or whitespace with a space and collapses whitespace.
// Accented letters survive. Empty input yields "".
func NormalizeText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	lower := cases.Lower(language.Und).String(StripMarkup(raw))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lower)

	return collapseSpaces(cleaned)
}

// FoldText lowercases text, strips markup and collapses whitespace but keeps punctuation.
// Experience keywords such as "sr." or "+5 años" are matched against folded text.
func FoldText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return collapseSpaces(cases.Lower(language.Und).String(StripMarkup(raw)))
}

// StripMarkup removes HTML tags and decodes entities. Element boundaries become spaces so that
// adjacent list items or paragraphs do not run together.
func StripMarkup(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return raw
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return tagPattern.ReplaceAllString(raw, " ")
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml(" ")
		s.AppendHtml(" ")
	})

	return doc.Text()
}

// collapseSpaces turns whitespace runs into single spaces and trims the result
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
