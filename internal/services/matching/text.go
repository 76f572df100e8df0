package matching

import (
	"regexp"
	"sort"
	"strings"
)

var (
	wordPattern  = regexp.MustCompile(`\w+`)
	tokenPattern = regexp.MustCompile(`\w+|[^\w\s]`)

	stopWords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
		"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
		"with": {}, "by": {},
	}
)

const (
	commonPhraseMinWords = 20
	commonPhraseMaxWords = 50
	commonPhraseMinChars = 50
	phraseOverlapLimit   = 0.7
	maxCommonPhrases     = 2
)

// JaccardSimilarity computes |intersection| / |union| over the word-token
// sets of two texts. Tokens are lowercased; stop words and tokens of two
// characters or fewer are dropped. Two empty sets yield 0, not an error.
func JaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// ExtractCommonText finds contiguous token sequences of 20-50 tokens (and
// at least 50 characters) shared verbatim by both texts. Among the shared
// phrases only the longest survive: phrases whose word sets overlap more
// than 70% with an already kept phrase are dropped, and at most two are
// returned. The bar is deliberately high; this detects long structured
// boilerplate such as insurance certificate text, not casual overlap.
func ExtractCommonText(a, b string) []string {
	if a == "" || b == "" {
		return nil
	}
	phrasesA := extractPhrases(strings.ToLower(a))
	if len(phrasesA) == 0 {
		return nil
	}
	phrasesB := extractPhrases(strings.ToLower(b))

	var common []string
	for p := range phrasesA {
		if _, ok := phrasesB[p]; ok {
			common = append(common, p)
		}
	}
	if len(common) == 0 {
		return nil
	}

	sort.Slice(common, func(i, j int) bool {
		if len(common[i]) != len(common[j]) {
			return len(common[i]) > len(common[j])
		}
		return common[i] < common[j]
	})

	var kept []string
	for _, phrase := range common {
		if overlapsKept(phrase, kept) {
			continue
		}
		kept = append(kept, phrase)
		if len(kept) >= maxCommonPhrases {
			break
		}
	}
	return kept
}

func overlapsKept(phrase string, kept []string) bool {
	for _, selected := range kept {
		if strings.Contains(selected, phrase) || strings.Contains(phrase, selected) {
			return true
		}
		wordsA := fieldSet(phrase)
		wordsB := fieldSet(selected)
		if len(wordsA) == 0 || len(wordsB) == 0 {
			continue
		}
		shared := 0
		for w := range wordsA {
			if _, ok := wordsB[w]; ok {
				shared++
			}
		}
		larger := len(wordsA)
		if len(wordsB) > larger {
			larger = len(wordsB)
		}
		if float64(shared)/float64(larger) > phraseOverlapLimit {
			return true
		}
	}
	return false
}

func fieldSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.Fields(s) {
		set[f] = struct{}{}
	}
	return set
}

// extractPhrases enumerates every contiguous token window of 20-50 tokens
// whose joined form is at least 50 characters. Tokens are words, numbers
// and punctuation marks so mixed alphanumeric sequences survive intact.
func extractPhrases(text string) map[string]struct{} {
	tokens := tokenPattern.FindAllString(text, -1)
	phrases := make(map[string]struct{})
	if len(tokens) < commonPhraseMinWords {
		return phrases
	}
	for i := 0; i <= len(tokens)-commonPhraseMinWords; i++ {
		maxLen := commonPhraseMaxWords
		if rest := len(tokens) - i; rest < maxLen {
			maxLen = rest
		}
		for length := commonPhraseMinWords; length <= maxLen; length++ {
			phrase := strings.Join(tokens[i:i+length], " ")
			if len(phrase) >= commonPhraseMinChars {
				phrases[phrase] = struct{}{}
			}
		}
	}
	return phrases
}
