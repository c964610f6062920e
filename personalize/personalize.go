package personalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/effective-security/edugentic/chatmodel"
)

// LearningStyle is the normalized learning-style enumeration.
type LearningStyle string

const (
	StyleVisual         LearningStyle = "visual"
	StyleAuditory       LearningStyle = "auditory"
	StyleKinesthetic    LearningStyle = "kinesthetic"
	StyleReadingWriting LearningStyle = "reading-writing"
	StyleUnknown        LearningStyle = "unknown"
)

// EmotionalState is the normalized emotional-state enumeration.
type EmotionalState string

const (
	StateAnxious   EmotionalState = "anxious"
	StateConfused  EmotionalState = "confused"
	StateFocused   EmotionalState = "focused"
	StateMotivated EmotionalState = "motivated"
	StateNeutral   EmotionalState = "neutral"
	StateUnknown   EmotionalState = "unknown"
)

// Mastery bounds; unmatched summaries resolve to the midpoint.
const (
	MasteryMin      = 1
	MasteryMax      = 10
	MasteryMidpoint = 5
)

// Profile is the normalized personalization derived from a StudentProfile.
type Profile struct {
	Style   LearningStyle
	State   EmotionalState
	Mastery int
	// Grade is the parsed ordinal grade level, 0 when unparseable.
	Grade int
}

// styleRules and stateRules are ordered rule lists; the first rule whose
// keyword occurs in the summary wins.
type rule[T any] struct {
	value    T
	keywords []string
}

var styleRules = []rule[LearningStyle]{
	{StyleVisual, []string{"visual", "diagram", "picture", "chart"}},
	{StyleAuditory, []string{"auditory", "listening", "hearing", "spoken"}},
	{StyleKinesthetic, []string{"kinesthetic", "hands-on", "hands on", "doing", "practice-based"}},
	{StyleReadingWriting, []string{"reading", "writing", "read/write", "text-based"}},
}

var stateRules = []rule[EmotionalState]{
	{StateAnxious, []string{"anxious", "frustrated", "worried", "stressed", "overwhelmed", "nervous"}},
	{StateConfused, []string{"confused", "lost", "struggling", "unsure"}},
	{StateFocused, []string{"focused", "engaged", "attentive", "concentrated"}},
	{StateMotivated, []string{"motivated", "excited", "confident", "eager", "curious"}},
	{StateNeutral, []string{"neutral", "calm", "okay", "fine"}},
}

var masteryRe = regexp.MustCompile(`(?i)\blevel\s*(\d+)`)
var gradeRe = regexp.MustCompile(`\d+`)

// Resolve normalizes the free-text profile summaries. It is total: any
// input, including empty or nonsense strings, yields a usable value from
// the fixed enumerations, never an error.
func Resolve(p *chatmodel.StudentProfile) Profile {
	if p == nil {
		return Profile{
			Style:   StyleUnknown,
			State:   StateUnknown,
			Mastery: MasteryMidpoint,
		}
	}
	return Profile{
		Style:   ResolveStyle(p.LearningStyleSummary),
		State:   ResolveState(p.EmotionalStateSummary),
		Mastery: ResolveMastery(p.MasteryLevelSummary),
		Grade:   resolveGrade(p.GradeLevel),
	}
}

// ResolveStyle maps a learning-style summary onto the fixed enumeration.
func ResolveStyle(summary string) LearningStyle {
	return matchRules(summary, styleRules, StyleUnknown)
}

// ResolveState maps an emotional-state summary onto the fixed enumeration.
func ResolveState(summary string) EmotionalState {
	return matchRules(summary, stateRules, StateUnknown)
}

// ResolveMastery parses a "Level N" pattern out of the mastery summary and
// clamps it to [1,10]; unmatched text yields the midpoint.
func ResolveMastery(summary string) int {
	m := masteryRe.FindStringSubmatch(summary)
	if m == nil {
		return MasteryMidpoint
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return MasteryMidpoint
	}
	if n < MasteryMin {
		return MasteryMin
	}
	if n > MasteryMax {
		return MasteryMax
	}
	return n
}

func resolveGrade(grade string) int {
	m := gradeRe.FindString(grade)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

func matchRules[T any](summary string, rules []rule[T], fallback T) T {
	lower := strings.ToLower(summary)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.value
			}
		}
	}
	return fallback
}
