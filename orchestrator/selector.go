package orchestrator

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/edugentic/extract"
	"github.com/effective-security/edugentic/tools/explainer"
	"github.com/effective-security/edugentic/tools/flashcards"
	"github.com/effective-security/edugentic/tools/notemaker"
)

// ErrClarificationNeeded signals that no tool could be confidently selected;
// the orchestrator must not guess a tool with no topic.
var ErrClarificationNeeded = errors.New("clarification needed")

// ClarificationPrompt is surfaced to the student when selection fails.
const ClarificationPrompt = "I can make notes, generate flashcards, or explain a concept. What topic would you like help with?"

// selectionRule maps trigger vocabulary to a tool.
type selectionRule struct {
	Tool     string
	Keywords []string
}

// selectionTiers is the ordered decision policy: tiers are evaluated in
// priority order and the first tier with any match wins. Within a tier the
// rule matched by the longest keyword span wins.
var selectionTiers = [][]selectionRule{
	// explicit tool mention or direct-call phrasing
	{
		{notemaker.ToolName, []string{"note maker", "note_maker", "notemaker"}},
		{flashcards.ToolName, []string{"flashcard generator", "flashcard_generator"}},
		{explainer.ToolName, []string{"concept explainer", "concept_explainer"}},
	},
	// request for practice or quizzing
	{
		{flashcards.ToolName, []string{"flashcards", "flashcard", "quiz me", "quiz", "test me", "practice", "memorize", "review"}},
	},
	// explanation seeking
	{
		{explainer.ToolName, []string{"explain", "why", "how does", "what is", "understand", "confused"}},
	},
	// note or summary deliverable
	{
		{notemaker.ToolName, []string{"notes", "note", "summarize", "summary", "write up", "study guide", "outline"}},
	},
}

// SelectTool chooses the tool for the current message given extracted
// context. Deterministic: identical input always yields the same selection.
func SelectTool(ec extract.Context, message string) (string, error) {
	lower := strings.ToLower(message)

	for _, tier := range selectionTiers {
		var bestTool string
		bestSpan := 0
		for _, rule := range tier {
			for _, kw := range rule.Keywords {
				if span := phraseSpan(lower, kw); span > bestSpan {
					bestTool = rule.Tool
					bestSpan = span
				}
			}
		}
		if bestTool != "" {
			return bestTool, nil
		}
	}

	// No trigger vocabulary: with a topic present, notes are the most
	// general deliverable; without one, ask instead of guessing.
	if ec.Topic != "" {
		return notemaker.ToolName, nil
	}
	return "", ErrClarificationNeeded
}

// phraseSpan returns the keyword length when kw occurs in msg on word
// boundaries, 0 otherwise. msg must already be lower-cased.
func phraseSpan(msg, kw string) int {
	idx := 0
	for {
		i := strings.Index(msg[idx:], kw)
		if i < 0 {
			return 0
		}
		i += idx
		startOK := i == 0 || !isWordChar(msg[i-1])
		end := i + len(kw)
		endOK := end == len(msg) || !isWordChar(msg[end])
		if startOK && endOK {
			return len(kw)
		}
		idx = i + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
