package matching

import (
	"regexp"
	"strings"
)

var (
	// Generic loan id tokens: LD123, ID-456, LOAN 789.
	loanIDPattern = regexp.MustCompile(`\b(?:LD|ID|LOAN)[-\s]?\d+\b`)

	loanIDDigitsPattern = regexp.MustCompile(`\b(?:LD|ID|LOAN)[-\s]?(\d+)\b`)

	// Both production phrasings are accepted:
	//   "... Principal & Interest repayment of Time Loan ..."
	//   "... Principal & Interest of Time Loan ..."
	timeLoanPhrasePattern = regexp.MustCompile(
		`(?i)amount\s+being\s+paid\s+as\s*principal\s*&?\s*interest(?:\s+repayment)?\s+(?:of\s+)?time\s+loan`)
)

// ExtractLoanID returns the first loan id token found in the narration,
// uppercased as matched, or "" when none is present.
func ExtractLoanID(particulars string) string {
	if particulars == "" {
		return ""
	}
	return loanIDPattern.FindString(strings.ToUpper(particulars))
}

// HasTimeLoanPhrase reports whether the narration carries the Time Loan
// principal & interest repayment phrase.
func HasTimeLoanPhrase(particulars string) bool {
	if particulars == "" {
		return false
	}
	return timeLoanPhrasePattern.MatchString(particulars)
}

// ExtractLoanIDAfterTimeLoanPhrase returns the first loan id occurring
// after the Time Loan phrase, normalized to LD-<digits>. The anchored
// extraction avoids digit collisions with unrelated ids earlier in the
// text. Returns "" when the phrase or a trailing id is absent.
func ExtractLoanIDAfterTimeLoanPhrase(particulars string) string {
	if particulars == "" {
		return ""
	}
	loc := timeLoanPhrasePattern.FindStringIndex(particulars)
	if loc == nil {
		return ""
	}
	after := strings.ToUpper(particulars[loc[1]:])
	m := loanIDDigitsPattern.FindStringSubmatch(after)
	if m == nil {
		return ""
	}
	return "LD-" + m[1]
}
