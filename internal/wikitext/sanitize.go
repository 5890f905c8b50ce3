// Package wikitext turns raw encyclopedia markup into plain display text.
//
// Sanitize runs a fixed pipeline of rewrites over an infobox field value;
// ExtractInfobox and ExtractFieldMap locate the primary infobox template in
// an article and split it into key/value pairs.
package wikitext

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxValueLength is the longest sanitized value (in runes) ever returned
const MaxValueLength = 220

var (
	commentRe       = regexp.MustCompile(`(?s)<!--.*?-->`)
	refSelfClosedRe = regexp.MustCompile(`(?i)<ref\b[^>]*/>`)
	refPairedRe     = regexp.MustCompile(`(?is)<ref\b[^>]*>.*?</ref\s*>`)
	footnoteRe      = regexp.MustCompile(`(?i)\[\s*(?:\d+|note\s*\d+|nb\s*\d+)\s*\]`)
	qualifierRe     = regexp.MustCompile(`(?i)\(\s*(?:[12]\d{3}|census|approx|approximately|est\.?|estimate|estimated|as of|as at)[^)]*\)`)
	convertRe       = regexp.MustCompile(`(?i)\{\{\s*(?:convert|cvt)\s*\|([^}]+)\}\}`)
	nowrapRe        = regexp.MustCompile(`(?is)\{\{\s*(?:nowrap|nobr)\s*\|(.*?)\}\}`)
	pipedLinkRe     = regexp.MustCompile(`\[\[([^\]|#]+)\|([^\]]+)\]\]`)
	plainLinkRe     = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	labelledExtRe   = regexp.MustCompile(`\[https?://[^\s\]]+\s+([^\]]+)\]`)
	bareExtRe       = regexp.MustCompile(`\[https?://[^\s\]]+\]`)
	quoteMarkerRe   = regexp.MustCompile(`''+`)
	templateRe      = regexp.MustCompile(`(?s)\{\{.*?\}\}`)

	punctuationOnlyRe = regexp.MustCompile(`^[-–—,.;:]+$`)
	maintenanceRe     = regexp.MustCompile(`(?i)\b(?:citation needed|page needed)\b`)
	digitRunRe        = regexp.MustCompile(`\d+`)

	tagPolicy = bluemonday.StrictPolicy()
	printer   = message.NewPrinter(language.English)
)

// Sanitize strips markup from a raw infobox value. It reports false when
// nothing displayable remains or the result still looks like markup.
func Sanitize(raw string) (string, bool) {
	s := commentRe.ReplaceAllString(raw, "")

	s = refSelfClosedRe.ReplaceAllString(s, "")
	s = refPairedRe.ReplaceAllString(s, "")
	s = stripTags(s)

	s = footnoteRe.ReplaceAllString(s, "")
	s = qualifierRe.ReplaceAllString(s, "")

	s = convertRe.ReplaceAllStringFunc(s, rewriteConvert)
	s = nowrapRe.ReplaceAllString(s, "${1}")

	s = pipedLinkRe.ReplaceAllString(s, "${2}")
	s = plainLinkRe.ReplaceAllString(s, "${1}")
	s = labelledExtRe.ReplaceAllString(s, "${1}")
	s = bareExtRe.ReplaceAllString(s, "")

	s = quoteMarkerRe.ReplaceAllString(s, "")
	s = templateRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	if !displayable(s) {
		return "", false
	}
	return s, true
}

// SanitizeNumeric sanitizes raw and re-renders its first digit run with
// English thousands grouping. Values with no digits come back sanitized but
// otherwise untouched.
func SanitizeNumeric(raw string) (string, bool) {
	cleaned, ok := Sanitize(raw)
	if !ok {
		return "", false
	}
	n, ok := FirstInteger(cleaned)
	if !ok {
		return cleaned, true
	}
	return printer.Sprintf("%d", n), true
}

// FirstInteger returns the first run of digits in s, ignoring thousands commas
func FirstInteger(s string) (int64, bool) {
	run := digitRunRe.FindString(strings.ReplaceAll(s, ",", ""))
	if run == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// stripTags removes any remaining HTML-like tags, keeping their text, and
// decodes entities whether or not a tag was present
func stripTags(s string) string {
	if strings.ContainsRune(s, '<') {
		s = tagPolicy.Sanitize(s)
	}
	return html.UnescapeString(s)
}

// rewriteConvert turns {{convert|AMOUNT|UNIT|...}} into "AMOUNT UNIT"
func rewriteConvert(match string) string {
	sub := convertRe.FindStringSubmatch(match)
	if len(sub) < 2 {
		return ""
	}
	var args []string
	for _, p := range strings.Split(sub[1], "|") {
		if p = strings.TrimSpace(p); p != "" {
			args = append(args, p)
		}
	}
	if len(args) < 2 {
		return ""
	}
	return args[0] + " " + args[1]
}

func displayable(s string) bool {
	switch {
	case s == "":
		return false
	case punctuationOnlyRe.MatchString(s):
		return false
	case strings.Contains(s, "{{"), strings.Contains(s, "}}"), strings.Contains(s, "|"):
		return false
	case utf8.RuneCountInString(s) > MaxValueLength:
		return false
	case maintenanceRe.MatchString(s):
		return false
	}
	return true
}
