package nlu

import "strings"

// Intent is one of the fixed topic categories the assistant routes a query to.
type Intent string

// The eight topic intents, plus the Ambiguous sentinel produced when
// classification cannot settle on a single topic.
const (
	IntentCoconutGeneral Intent = "coconut_general"
	IntentVarieties      Intent = "varieties"
	IntentFertilizers    Intent = "fertilizers"
	IntentIrrigation     Intent = "irrigation"
	IntentPests          Intent = "pests"
	IntentDiseases       Intent = "diseases"
	IntentHarvesting     Intent = "harvesting"
	IntentIntercropping  Intent = "intercropping"

	IntentAmbiguous Intent = "ambiguous"
)

// Intents lists the topic intents in their fixed enumeration order.
// Ambiguous is a sentinel, not a topic, and is deliberately excluded.
var Intents = []Intent{
	IntentCoconutGeneral,
	IntentVarieties,
	IntentFertilizers,
	IntentIrrigation,
	IntentPests,
	IntentDiseases,
	IntentHarvesting,
	IntentIntercropping,
}

// String returns the wire representation of the intent.
func (i Intent) String() string { return string(i) }

// IsTopic reports whether i is one of the eight topic intents.
func IsTopic(i Intent) bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}

// intentKeywords maps each intent to the keyword list tested by Match.
// Keywords are matched whole-word against normalized text, tolerating a
// trailing pluralizing "s". Deliberately absent: "coconut", "grow" and other
// terms that appear in nearly every query and would defeat the single-match
// fast path.
var intentKeywords = map[Intent][]string{
	IntentCoconutGeneral: {"cultivation", "planting", "spacing", "seedling", "nursery", "climate", "basics"},
	IntentVarieties:      {"variety", "hybrid", "dwarf", "tall", "cultivar"},
	IntentFertilizers:    {"fertilizer", "urea", "potash", "manure", "compost", "nutrient", "npk"},
	IntentIrrigation:     {"water", "irrigation", "drip", "moisture", "mulch"},
	IntentPests:          {"pest", "mite", "beetle", "weevil", "caterpillar", "rodent"},
	IntentDiseases:       {"disease", "yellow", "wilt", "rot", "fungus", "infection"},
	IntentHarvesting:     {"harvest", "yield", "plucking", "tender", "copra"},
	IntentIntercropping:  {"intercrop", "intercropping", "interplant", "companion"},
}

// Match runs the deterministic keyword pre-classifier over normalized text.
// An intent is included when at least one of its keywords occurs as a whole
// token (optionally pluralized). Result order follows the fixed intent
// enumeration. Exactly one match is the caller's keyword fast path.
func Match(normalized string) []Intent {
	tokens := strings.Fields(normalized)
	present := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		present[tok] = true
	}

	var matched []Intent
	for _, intent := range Intents {
		for _, kw := range intentKeywords[intent] {
			if present[kw] || present[kw+"s"] {
				matched = append(matched, intent)
				break
			}
		}
	}
	return matched
}
