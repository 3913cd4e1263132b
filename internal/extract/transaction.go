package extract

import (
	"regexp"
	"strings"
)

var (
	// $45 million, $45.2 million, $1,200.50 million. No magnitude check.
	amountPattern = regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{1,2})? million`)
	sizePattern   = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)-square-foot`)
	// Coarse: the phrase runs until the first character that is not a
	// letter, whitespace or comma, so it usually swallows trailing words.
	// Whitespace includes the Unicode separators (U+00A0 from &nbsp; etc).
	locationPattern = regexp.MustCompile(`\b(?:in|near)[` + unicodeSpace + `]+([A-Za-z` + unicodeSpace + `,]+)`)
)

// unicodeSpace is a character class body for Unicode whitespace: ASCII
// space and controls, U+0085 and the Z categories. RE2's \s alone is
// ASCII-only.
const unicodeSpace = `\s\x{0B}\x{1C}-\x{1F}\x{85}\p{Z}`

// ExtractTransactionInfo mines a deal amount, a square-footage figure and
// location phrases from free text. Only the first amount and the first
// square-footage mention are kept.
func ExtractTransactionInfo(text string) TransactionInfo {
	var info TransactionInfo
	if text == "" {
		return info
	}

	info.Amount = amountPattern.FindString(text)

	if m := sizePattern.FindStringSubmatch(text); m != nil {
		info.SquareFootage = strings.ReplaceAll(m[1], ",", "")
	}

	seen := make(map[string]struct{})
	for _, m := range locationPattern.FindAllStringSubmatch(text, -1) {
		phrase := strings.TrimSpace(m[1])
		if phrase == "" {
			continue
		}
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		info.Descriptors = append(info.Descriptors, phrase)
	}

	return info
}
