package gate

import "strings"

var scamPhrases = []string{
	"airdrop now",
	"claim your",
	"double your",
	"free tokens",
	"admin will never dm",
	"metamask support",
	"trust wallet support",
	"click here now",
	"urgent verify",
}

// Filter is a blunt case-insensitive phrase matcher, not a classifier.
// False positives are accepted as the cost of simplicity.
type Filter struct {
	phrases []string
}

func NewFilter(extra ...string) *Filter {
	phrases := make([]string, 0, len(scamPhrases)+len(extra))
	phrases = append(phrases, scamPhrases...)
	for _, phrase := range extra {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	return &Filter{phrases: phrases}
}

func (f *Filter) Suspicious(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range f.phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
