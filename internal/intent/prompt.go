package intent

import (
	"strings"

	"github.com/anoopvm/coconut-advisor-go/internal/nlu"
)

// GenericClarification is uttered when classification degrades to the
// ambiguous fallback and no model-provided question exists.
const GenericClarification = "I want to make sure I help with the right topic. Are you asking about coconut cultivation basics, varieties, fertilizers, irrigation, pests, diseases, harvesting, or intercropping?"

// intentGuide describes each topic for the model, including its
// disambiguation rule.
var intentGuide = []struct {
	intent nlu.Intent
	rule   string
}{
	{nlu.IntentCoconutGeneral, "general cultivation: climate, planting, spacing, seedlings, nursery, establishing a garden"},
	{nlu.IntentVarieties, "choosing or comparing varieties: tall, dwarf, hybrid cultivar names and their traits"},
	{nlu.IntentFertilizers, "nutrition: fertilizer schedules, doses, urea, potash, manure, compost, deficiencies to correct by feeding"},
	{nlu.IntentIrrigation, "water management: irrigation methods, watering frequency, drip systems, mulching, drainage"},
	{nlu.IntentPests, "insect and animal pests: beetles, weevils, mites, rodents and their control"},
	{nlu.IntentDiseases, "plant diseases and symptoms: yellowing, rot, wilt, bleeding, fungal problems"},
	{nlu.IntentHarvesting, "harvest timing and technique: nut maturity, picking frequency, tender coconut, copra"},
	{nlu.IntentIntercropping, "growing other crops between palms: crop choices, mixed farming, spacing from palms"},
}

// buildClassifyPrompt assembles the classification instruction prompt. The
// model must answer with strict JSON only.
func buildClassifyPrompt(rawQuery string, history []string) string {
	var b strings.Builder

	b.WriteString("You are an intent classifier for a coconut farming assistant.\n")
	b.WriteString("Classify the farmer's question into exactly one of these intents:\n\n")
	for _, g := range intentGuide {
		b.WriteString("- ")
		b.WriteString(g.intent.String())
		b.WriteString(": ")
		b.WriteString(g.rule)
		b.WriteString("\n")
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- Treat spelling variants and synonyms as equivalent: fertiliser/fertilizer/manure all mean fertilizers; cocnut means coconut; desease means disease; verity means variety; watering means irrigation.\n")
	b.WriteString("- A question about yellow leaves or sick palms is diseases unless it explicitly asks which variety or fertilizer to use.\n")
	b.WriteString("- If the question fits none of the intents, or genuinely spans several with no primary one, answer with intent \"ambiguous\" and include a short clarifying_question.\n")
	b.WriteString("- Answer with strict JSON only, no prose, no code fences: {\"intent\": \"<name>\", \"clarifying_question\": \"<only when ambiguous>\"}\n")

	b.WriteString("\nExamples:\n")
	b.WriteString("Q: Suggest fertilizer schedule for coconut plants\nA: {\"intent\": \"fertilizers\"}\n")
	b.WriteString("Q: Which dwarf variety is best for tender coconut?\nA: {\"intent\": \"varieties\"}\n")
	b.WriteString("Q: My palm leaves are turning yellow, what is wrong?\nA: {\"intent\": \"diseases\"}\n")
	b.WriteString("Q: Tell me about coconuts\nA: {\"intent\": \"ambiguous\", \"clarifying_question\": \"Which part of coconut farming would you like to know about, such as planting, varieties or harvesting?\"}\n")

	if len(history) > 0 {
		b.WriteString("\nRecent farmer messages, oldest first:\n")
		for _, h := range history {
			b.WriteString("- ")
			b.WriteString(h)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nQ: ")
	b.WriteString(rawQuery)
	b.WriteString("\nA:")
	return b.String()
}
