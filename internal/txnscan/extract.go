// Package txnscan extracts payment transaction ids from OCR output.
// The OCR call itself is an external collaborator; this package only
// scrapes the free text it returns. Extraction is best-effort: payment
// screenshots vary wildly between wallet apps and OCR mangles labels
// ("1D" for "ID" is common), so the patterns tolerate those errors and
// fall back to bare digit runs with context filtering.
package txnscan

import (
	"regexp"
	"strings"
)

var (
	// Labelled ids, most trustworthy first. Digit runs of 10-15 are
	// what the supported wallets emit.
	walletPattern = regexp.MustCompile(`(?i)(?:wallet[\s-]?tx[nm][\s-]?(?:id|1d)|transaction[\s-]?id|txn[\s-]?id)[:\s-]*(\d{10,15})`)
	upiPattern    = regexp.MustCompile(`(?i)(?:upi[\s-]?ref(?:erence)?|order[\s-]?id)[:\s-]*(\d{10,15})`)

	// Bare digit runs considered only when no labelled id matched.
	barePattern = regexp.MustCompile(`\d{10,15}`)

	monthNames = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`
)

// Extract scans OCR text for a transaction id and reports whether one
// was found. Labelled ids win over bare digit runs; bare runs are
// rejected when they sit in date context or directly follow a Balance
// or Group amount, which are the usual false positives on wallet
// screenshots.
func Extract(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{walletPattern, upiPattern} {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	for _, loc := range barePattern.FindAllStringIndex(text, -1) {
		id := text[loc[0]:loc[1]]
		if !standalone(text, loc[0], loc[1]) {
			continue
		}
		if amountContext(text, loc[0]) || inDateContext(id, text) {
			continue
		}
		return id, true
	}
	return "", false
}

// standalone requires word boundaries around the digit run so we do
// not split a longer number.
func standalone(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// amountContext rejects digit runs directly preceded by a Balance or
// Group label, or by a comma-grouped amount fragment like ", 1234".
func amountContext(text string, start int) bool {
	prefix := text[:start]
	for _, label := range []string{"Balance ", "Group "} {
		if strings.HasSuffix(prefix, label) {
			return true
		}
	}
	return commaGroupSuffix.MatchString(prefix)
}

var commaGroupSuffix = regexp.MustCompile(`,\s\d{4}$`)

// inDateContext reports whether the id appears alongside a month name
// anywhere in the text, in either order. Timestamps on payment
// screenshots are the main source of plausible-length digit runs.
func inDateContext(id, text string) bool {
	re := regexp.MustCompile(`(?i)\b(?:` + regexp.QuoteMeta(id) + `\b.*(?:` + monthNames + `)|(?:` + monthNames + `).*\b` + regexp.QuoteMeta(id) + `\b)`)
	return re.MatchString(text)
}
