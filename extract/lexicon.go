package extract

import "strings"

// Entry is one curated topic keyword and the academic subject it maps to.
// Subject may be empty when the keyword has no unambiguous subject.
type Entry struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
}

// Lexicon is the curated academic topic/subject table used for topic
// detection. Matching is an enumerable ordered rule list, not ad hoc
// string branching, so behavior stays auditable.
type Lexicon struct {
	entries []Entry
}

// DefaultLexicon returns the built-in academic lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{entries: []Entry{
		{Keyword: "math", Subject: "Mathematics"},
		{Keyword: "calculus", Subject: "Mathematics"},
		{Keyword: "algebra", Subject: "Mathematics"},
		{Keyword: "geometry", Subject: "Mathematics"},
		{Keyword: "statistics", Subject: "Mathematics"},
		{Keyword: "derivatives", Subject: "Mathematics"},
		{Keyword: "equations", Subject: "Mathematics"},
		{Keyword: "science", Subject: "Science"},
		{Keyword: "biology", Subject: "Biology"},
		{Keyword: "photosynthesis", Subject: "Biology"},
		{Keyword: "chemistry", Subject: "Chemistry"},
		{Keyword: "physics", Subject: "Physics"},
		{Keyword: "environmental", Subject: "Environmental Science"},
		{Keyword: "history", Subject: "History"},
		{Keyword: "world war", Subject: "History"},
		{Keyword: "english", Subject: "English"},
		{Keyword: "literature", Subject: "English"},
		{Keyword: "writing", Subject: "English"},
		{Keyword: "reading", Subject: "English"},
		{Keyword: "programming", Subject: "Computer Science"},
		{Keyword: "computer science", Subject: "Computer Science"},
		{Keyword: "coding", Subject: "Computer Science"},
	}}
}

// NewLexicon builds a lexicon from explicit entries, in the given order.
func NewLexicon(entries ...Entry) *Lexicon {
	return &Lexicon{entries: entries}
}

// Merge appends extra entries, skipping keywords already present.
func (l *Lexicon) Merge(extra ...Entry) *Lexicon {
	for _, e := range extra {
		kw := strings.ToLower(strings.TrimSpace(e.Keyword))
		if kw == "" || l.has(kw) {
			continue
		}
		l.entries = append(l.entries, Entry{Keyword: kw, Subject: e.Subject})
	}
	return l
}

func (l *Lexicon) has(keyword string) bool {
	for _, e := range l.entries {
		if e.Keyword == keyword {
			return true
		}
	}
	return false
}

// Entries returns the ordered rule list.
func (l *Lexicon) Entries() []Entry {
	return l.entries
}

// Match returns all entries whose keyword occurs in the text,
// in lexicon order. Matching is case-insensitive.
func (l *Lexicon) Match(text string) []Entry {
	lower := strings.ToLower(text)
	var found []Entry
	for _, e := range l.entries {
		if strings.Contains(lower, e.Keyword) {
			found = append(found, e)
		}
	}
	return found
}

// SubjectOf returns the subject for a known topic keyword, or empty.
func (l *Lexicon) SubjectOf(keyword string) string {
	kw := strings.ToLower(keyword)
	for _, e := range l.entries {
		if e.Keyword == kw {
			return e.Subject
		}
	}
	return ""
}
