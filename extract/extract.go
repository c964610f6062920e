package extract

import (
	"github.com/effective-security/edugentic/chatmodel"
)

// Confidence grades how directly the topic was observed in the conversation.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Context is the signal derived from one conversation; it is request-scoped
// and never persisted.
type Context struct {
	// Topic is the canonical lexicon keyword, empty when nothing matched.
	Topic string
	// Subject is the academic subject of the topic, may be empty.
	Subject string
	// Keywords are all lexicon matches across the scanned window, deduplicated.
	Keywords []string
	// Confidence is high when the topic appears in the current message,
	// medium when only in prior history, low when no topic was found.
	Confidence Confidence
}

const (
	// DefaultTopicWindow is how many trailing turns participate in topic
	// detection in addition to the current message.
	DefaultTopicWindow = 3
	// DefaultKeywordWindow bounds how much history the keyword scan reads.
	DefaultKeywordWindow = 10
)

// Extractor derives topic, subject and salient keywords from conversation
// text. It is deterministic: identical input always yields identical output.
type Extractor struct {
	lex           *Lexicon
	topicWindow   int
	keywordWindow int
}

func NewExtractor(lex *Lexicon) *Extractor {
	return &Extractor{
		lex:           lex,
		topicWindow:   DefaultTopicWindow,
		keywordWindow: DefaultKeywordWindow,
	}
}

// WithTopicWindow overrides the trailing-turn window for topic detection.
func (e *Extractor) WithTopicWindow(n int) *Extractor {
	if n > 0 {
		e.topicWindow = n
	}
	return e
}

// WithKeywordWindow overrides the history bound for the keyword scan.
func (e *Extractor) WithKeywordWindow(n int) *Extractor {
	if n > 0 {
		e.keywordWindow = n
	}
	return e
}

// SubjectOf returns the lexicon subject for a known topic keyword, or empty.
func (e *Extractor) SubjectOf(keyword string) string {
	return e.lex.SubjectOf(keyword)
}

// Extract scans the current message first, then prior turns most-recent-first
// within the topic window. The first text with any lexicon match decides the
// topic; within that text the longest keyword wins (most specific mention).
func (e *Extractor) Extract(history []chatmodel.Message, current string) Context {
	texts := []string{current}
	for i := len(history) - 1; i >= 0 && len(texts) <= e.topicWindow; i-- {
		texts = append(texts, history[i].Content)
	}

	res := Context{Confidence: ConfidenceLow}
	for i, text := range texts {
		matches := e.lex.Match(text)
		if len(matches) == 0 {
			continue
		}
		best := matches[0]
		for _, m := range matches[1:] {
			if len(m.Keyword) > len(best.Keyword) {
				best = m
			}
		}
		res.Topic = best.Keyword
		res.Subject = best.Subject
		if i == 0 {
			res.Confidence = ConfidenceHigh
		} else {
			res.Confidence = ConfidenceMedium
		}
		break
	}

	res.Keywords = e.keywords(history, current)
	return res
}

// keywords collects all lexicon matches across the current message and a
// bounded trailing history window, preserving first-seen order.
func (e *Extractor) keywords(history []chatmodel.Message, current string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(text string) {
		for _, m := range e.lex.Match(text) {
			if !seen[m.Keyword] {
				seen[m.Keyword] = true
				out = append(out, m.Keyword)
			}
		}
	}
	add(current)
	start := len(history) - e.keywordWindow
	if start < 0 {
		start = 0
	}
	for i := len(history) - 1; i >= start; i-- {
		add(history[i].Content)
	}
	return out
}
