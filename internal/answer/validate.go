package answer

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultDenylist are the fabricated-detail markers rejected in generated
// answers unless the grounding text itself contains them. Patterns are
// case-insensitive regular expressions.
var DefaultDenylist = []string{
	`\bph\s*(level|value|of)?\s*\d`,
	`\d+(\.\d+)?\s*(cm|mm|inch|inches|feet|ft)\b`,
	`\b(laterite|alluvial|loamy|peat|chalky|saline)\b`,
	`\b\d+\s*(ppm|mg/l)\b`,
}

// Validator rejects generated text that introduces details absent from the
// knowledge subsection it was grounded on.
type Validator struct {
	patterns []*regexp.Regexp
}

// NewValidator compiles the denylist. Empty patterns fall back to
// DefaultDenylist.
func NewValidator(patterns []string) (*Validator, error) {
	if len(patterns) == 0 {
		patterns = DefaultDenylist
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile denylist pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Validator{patterns: compiled}, nil
}

// Validate reports whether generated is acceptable against grounding. A
// denylist marker only rejects when the grounding text does not contain a
// match for the same pattern.
func (v *Validator) Validate(generated, grounding string) bool {
	grounding = strings.ToLower(grounding)
	for _, re := range v.patterns {
		if re.MatchString(generated) && !re.MatchString(grounding) {
			return false
		}
	}
	return true
}
