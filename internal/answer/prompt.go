package answer

import (
	"strings"

	"github.com/anoopvm/coconut-advisor-go/internal/knowledge"
	"github.com/anoopvm/coconut-advisor-go/internal/nlu"
)

// buildAnswerPrompt assembles the generation prompt. The model may only use
// the embedded knowledge subsection; everything else is instruction.
func buildAnswerPrompt(intent nlu.Intent, rawQuery string, history []string) string {
	var b strings.Builder

	b.WriteString("You are a coconut farming advisor. Answer the farmer's question in 1 to 5 sentences.\n")
	b.WriteString("Use ONLY the facts below. Do not invent numbers, measurements, pH values or soil types that are not in the facts. If the facts do not cover the question, say what the facts do cover.\n")
	b.WriteString("Treat spelling variants and synonyms as the same word: fertiliser and manure mean fertilizer, cocnut means coconut, desease means disease.\n")

	b.WriteString("\nFacts about ")
	b.WriteString(knowledge.Title(intent))
	b.WriteString(":\n")
	b.WriteString(knowledge.SectionText(intent))

	b.WriteString("\nExample:\n")
	b.WriteString("Question: When should I apply fertilizer?\n")
	b.WriteString("Answer: Apply fertilizer to adult palms in two splits, one third at the start of the monsoon and two thirds at its close.\n")

	if len(history) > 0 {
		b.WriteString("\nRecent farmer messages, oldest first:\n")
		for _, h := range history {
			b.WriteString("- ")
			b.WriteString(h)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(rawQuery)
	b.WriteString("\nAnswer:")
	return b.String()
}
