// Package nlu provides the deterministic text-processing front of the query
// pipeline: spelling/synonym normalization and rule-based intent keyword
// matching over a fixed agricultural vocabulary.
package nlu

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// nonWordRe strips everything that is not a word character or whitespace.
var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// variations maps observed spelling variants and synonyms to canonical terms.
// Matching is full-token and case-insensitive; a trailing pluralizing "s" on
// the input token is tolerated (so "fertilisers" matches "fertiliser").
var variations = map[string]string{
	// British/Indian spellings
	"fertiliser":  "fertilizer",
	"fertilisers": "fertilizer",
	"fertilizers": "fertilizer",
	"colour":      "color",
	"neighbour":   "neighbor",

	// Common misspellings seen in farmer queries
	"cocnut":    "coconut",
	"cocunut":   "coconut",
	"coconot":   "coconut",
	"kocounut":  "coconut",
	"yelow":     "yellow",
	"yellowish": "yellow",
	"desease":   "disease",
	"desiese":   "disease",
	"dezease":   "disease",
	"diseas":    "disease",
	"verity":    "variety",
	"veriety":   "variety",
	"varities":  "variety",
	"irigation": "irrigation",
	"pesticde":  "pesticide",
	"harvests":  "harvest",
	"harvested": "harvest",

	// Synonyms folded onto the canonical vocabulary
	"manures":     "manure",
	"watering":    "water",
	"cultivating": "cultivation",
	"intercrops":  "intercrop",
	"bugs":        "pest",
	"bug":         "pest",
}

// Normalize canonicalizes raw query text. Tokens are split on whitespace,
// stripped of punctuation, lower-cased, and replaced by their canonical form
// when they (or their singular form) appear in the variation table. Unknown
// tokens pass through unchanged. Always returns a string; idempotent.
func Normalize(text string) string {
	// NFKC first so full-width and composed variants compare equal.
	text = norm.NFKC.String(text)

	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		cleaned := strings.ToLower(nonWordRe.ReplaceAllString(tok, ""))
		if cleaned == "" {
			continue
		}
		out = append(out, canonical(cleaned))
	}
	return strings.Join(out, " ")
}

// canonical resolves a cleaned token against the variation table, tolerating
// a trailing pluralizing "s" on the token.
func canonical(token string) string {
	if c, ok := variations[token]; ok {
		return c
	}
	if strings.HasSuffix(token, "s") {
		if c, ok := variations[strings.TrimSuffix(token, "s")]; ok {
			return c
		}
	}
	return token
}
