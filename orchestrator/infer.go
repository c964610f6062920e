package orchestrator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/edugentic/chatmodel"
	"github.com/effective-security/edugentic/extract"
	"github.com/effective-security/edugentic/personalize"
	"github.com/effective-security/edugentic/schema"
	"github.com/effective-security/edugentic/tools/explainer"
	"github.com/effective-security/edugentic/tools/flashcards"
	"github.com/effective-security/edugentic/tools/notemaker"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Source records where a parameter value came from.
type Source string

const (
	SourceExplicit        Source = "explicit"
	SourceContext         Source = "context"
	SourcePersonalization Source = "personalization"
	SourceDefault         Source = "default"
)

// Input is everything the inference engine may draw on for one request.
type Input struct {
	Tool     string
	Student  *chatmodel.StudentProfile
	History  []chatmodel.Message
	Message  string
	Context  extract.Context
	Personal personalize.Profile
	// Explicit is a raw JSON object of explicitly supplied parameters
	// (direct-call path); explicit values win outright.
	Explicit []byte
}

// ToolCallParameters is a fully resolved, schema-valid parameter object.
// It is constructed fresh per request and consumed once by the dispatcher.
type ToolCallParameters struct {
	Tool      string
	StudentID string
	// Payload is the validated JSON parameter object.
	Payload []byte
	// Sources records the resolution source per parameter.
	Sources map[string]Source
}

// Engine composes extracted context, personalization and the tool schema
// into validated tool call parameters. It holds no per-request state.
type Engine struct {
	registry *schema.Registry
}

func NewEngine(registry *schema.Registry) *Engine {
	return &Engine{registry: registry}
}

// Infer resolves every schema parameter in declared order. Resolution
// precedence per parameter: explicit value, conversation context,
// personalization, schema default. Unresolved required parameters and
// constraint violations are collected into one ValidationError; a partial
// best-guess result is never returned.
func (e *Engine) Infer(in *Input) (*ToolCallParameters, error) {
	sc, err := e.registry.Get(in.Tool)
	if err != nil {
		return nil, err
	}

	payload := []byte("{}")
	sources := make(map[string]Source)
	var fields []FieldError

	for i := range sc.Parameters {
		p := &sc.Parameters[i]

		val, src, ok, ferr := resolve(p, in)
		if ferr != nil {
			fields = append(fields, *ferr)
			continue
		}
		if !ok {
			if p.Required {
				fields = append(fields, FieldError{
					Name:   p.Name,
					Reason: "required parameter could not be inferred from the conversation",
				})
			}
			continue
		}

		val, ferr = conform(p, val, src)
		if ferr != nil {
			fields = append(fields, *ferr)
			continue
		}

		payload, err = setValue(payload, p.Name, val)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to set parameter %s", p.Name)
		}
		sources[p.Name] = src
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Tool: sc.Name, Fields: fields}
	}

	var studentID string
	if in.Student != nil {
		studentID = in.Student.UserID
	}
	return &ToolCallParameters{
		Tool:      sc.Name,
		StudentID: studentID,
		Payload:   payload,
		Sources:   sources,
	}, nil
}

type ruleFunc func(in *Input) (any, bool)

// contextRules derive parameter values from the extracted conversation
// context. Rule tables, not per-tool branching: adding a tool adds rows.
var contextRules = map[string]ruleFunc{
	"topic": func(in *Input) (any, bool) {
		return in.Context.Topic, in.Context.Topic != ""
	},
	"subject": func(in *Input) (any, bool) {
		return in.Context.Subject, in.Context.Subject != ""
	},
	"concept_to_explain": func(in *Input) (any, bool) {
		return in.Context.Topic, in.Context.Topic != ""
	},
	"current_topic": func(in *Input) (any, bool) {
		return in.Context.Subject, in.Context.Subject != ""
	},
	"count": func(in *Input) (any, bool) {
		return inferCount(in.Message)
	},
	"user_info": func(in *Input) (any, bool) {
		if in.Student == nil {
			return nil, false
		}
		return *in.Student, true
	},
	"chat_history": func(in *Input) (any, bool) {
		if in.History == nil {
			return []chatmodel.Message{}, true
		}
		return in.History, true
	},
}

// personalizationRules derive parameter values from the normalized
// student profile, consulted only when context yields nothing.
var personalizationRules = map[string]ruleFunc{
	"note_taking_style": func(in *Input) (any, bool) {
		return noteStyleFor(in.Personal.Style), true
	},
	"difficulty": func(in *Input) (any, bool) {
		return difficultyFor(in.Personal, in.Message), true
	},
	"desired_depth": func(in *Input) (any, bool) {
		return depthFor(in.Personal, in.Message), true
	},
	"include_analogies": func(in *Input) (any, bool) {
		return true, in.Personal.Style == personalize.StyleVisual
	},
}

func resolve(p *schema.Parameter, in *Input) (any, Source, bool, *FieldError) {
	if len(in.Explicit) > 0 {
		if r := gjson.GetBytes(in.Explicit, p.Name); r.Exists() {
			v, ferr := explicitValue(p, r)
			if ferr != nil {
				return nil, SourceExplicit, false, ferr
			}
			return v, SourceExplicit, true, nil
		}
	}
	if rule, ok := contextRules[p.Name]; ok {
		if v, ok := rule(in); ok {
			return v, SourceContext, true, nil
		}
	}
	if rule, ok := personalizationRules[p.Name]; ok {
		if v, ok := rule(in); ok {
			return v, SourcePersonalization, true, nil
		}
	}
	if p.Default != nil {
		return p.Default, SourceDefault, true, nil
	}
	return nil, "", false, nil
}

// explicitValue decodes an explicitly supplied value, rejecting wrong types
// outright: explicit input is never silently coerced.
func explicitValue(p *schema.Parameter, r gjson.Result) (any, *FieldError) {
	switch p.Type {
	case "integer":
		if r.Type != gjson.Number {
			return nil, &FieldError{Name: p.Name, Reason: "must be an integer"}
		}
		f := r.Float()
		if f != math.Trunc(f) {
			return nil, &FieldError{Name: p.Name, Reason: "must be an integer"}
		}
		return int(f), nil
	case "number":
		if r.Type != gjson.Number {
			return nil, &FieldError{Name: p.Name, Reason: "must be a number"}
		}
		return r.Float(), nil
	case "string":
		if r.Type != gjson.String {
			return nil, &FieldError{Name: p.Name, Reason: "must be a string"}
		}
		return r.String(), nil
	case "boolean":
		if !r.IsBool() {
			return nil, &FieldError{Name: p.Name, Reason: "must be a boolean"}
		}
		return r.Bool(), nil
	case "array":
		if !r.IsArray() {
			return nil, &FieldError{Name: p.Name, Reason: "must be an array"}
		}
		return json.RawMessage(r.Raw), nil
	case "object":
		if !r.IsObject() {
			return nil, &FieldError{Name: p.Name, Reason: "must be an object"}
		}
		return json.RawMessage(r.Raw), nil
	default:
		return json.RawMessage(r.Raw), nil
	}
}

// conform checks a resolved value against the schema constraint. Explicit
// out-of-range values are rejected with a field-level error; inferred and
// defaulted numeric values are clamped into the schema range.
func conform(p *schema.Parameter, val any, src Source) (any, *FieldError) {
	if len(p.Enum) > 0 {
		s, ok := val.(string)
		if !ok {
			return nil, &FieldError{Name: p.Name, Reason: "must be a string"}
		}
		found := false
		for _, allowed := range p.Enum {
			if s == allowed {
				found = true
				break
			}
		}
		if !found {
			return nil, &FieldError{
				Name:   p.Name,
				Reason: fmt.Sprintf("must be one of: %s", strings.Join(p.Enum, ", ")),
			}
		}
		return s, nil
	}

	if p.Minimum == nil && p.Maximum == nil {
		return val, nil
	}
	f, ok := toFloat(val)
	if !ok {
		return val, nil
	}
	if src == SourceExplicit {
		if p.Minimum != nil && f < *p.Minimum || p.Maximum != nil && f > *p.Maximum {
			return nil, &FieldError{Name: p.Name, Reason: rangeReason(p)}
		}
		return val, nil
	}
	if p.Minimum != nil && f < *p.Minimum {
		f = *p.Minimum
	}
	if p.Maximum != nil && f > *p.Maximum {
		f = *p.Maximum
	}
	if p.Type == "integer" {
		return int(f), nil
	}
	return f, nil
}

func rangeReason(p *schema.Parameter) string {
	switch {
	case p.Minimum != nil && p.Maximum != nil:
		return fmt.Sprintf("must be between %v and %v", *p.Minimum, *p.Maximum)
	case p.Minimum != nil:
		return fmt.Sprintf("must be at least %v", *p.Minimum)
	default:
		return fmt.Sprintf("must be at most %v", *p.Maximum)
	}
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func setValue(payload []byte, name string, val any) ([]byte, error) {
	switch v := val.(type) {
	case json.RawMessage:
		return sjson.SetRawBytes(payload, name, v)
	case string, bool, int, int64, float64:
		return sjson.SetBytes(payload, name, v)
	default:
		bs, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return sjson.SetRawBytes(payload, name, bs)
	}
}

// Vocabulary for message-driven overrides, from the curated inference
// keyword lists.
var (
	fewKeywords   = []string{"few", "some", "little"}
	manyKeywords  = []string{"many", "lot", "comprehensive", "extensive"}
	easyKeywords  = []string{"struggling", "difficult", "hard", "confused", "beginner"}
	hardKeywords  = []string{"advanced", "expert", "challenging", "complex"}
	basicKeywords = []string{"basic", "simple", "beginner", "confused", "fundamental"}
	deepKeywords  = []string{"advanced", "comprehensive", "detailed", "expert"}
)

const (
	fewCount  = 5
	manyCount = 15
)

func inferCount(message string) (int, bool) {
	lower := strings.ToLower(message)
	if containsAny(lower, fewKeywords) {
		return fewCount, true
	}
	if containsAny(lower, manyKeywords) {
		return manyCount, true
	}
	return 0, false
}

// noteStyleFor follows the learning style; total over the enumeration.
func noteStyleFor(style personalize.LearningStyle) string {
	switch style {
	case personalize.StyleVisual:
		return notemaker.StyleStructured
	case personalize.StyleKinesthetic:
		return notemaker.StyleBulletPoints
	case personalize.StyleAuditory:
		return notemaker.StyleNarrative
	default:
		return notemaker.StyleOutline
	}
}

// difficultyFor scales with mastery (1-3 beginner, 4-7 intermediate,
// 8-10 advanced) adjusted by emotional state; explicit message vocabulary
// overrides the curve.
func difficultyFor(p personalize.Profile, message string) string {
	lower := strings.ToLower(message)
	if containsAny(lower, easyKeywords) {
		return flashcards.DifficultyBeginner
	}
	if containsAny(lower, hardKeywords) {
		return flashcards.DifficultyAdvanced
	}

	score := p.Mastery
	switch p.State {
	case personalize.StateAnxious, personalize.StateConfused:
		score -= 2
	case personalize.StateFocused, personalize.StateMotivated:
		score++
	}

	switch {
	case score <= 3:
		return flashcards.DifficultyBeginner
	case score >= 8:
		return flashcards.DifficultyAdvanced
	default:
		return flashcards.DifficultyIntermediate
	}
}

// depthFor follows mastery with message vocabulary overrides; an anxious
// student gets one step gentler scaffolding.
func depthFor(p personalize.Profile, message string) string {
	lower := strings.ToLower(message)
	if containsAny(lower, basicKeywords) {
		return explainer.DepthBasic
	}
	if containsAny(lower, deepKeywords) {
		return explainer.DepthComprehensive
	}

	var depth string
	switch {
	case p.Mastery >= 8:
		depth = explainer.DepthAdvanced
	case p.Mastery <= 3:
		depth = explainer.DepthBasic
	default:
		depth = explainer.DepthIntermediate
	}

	if p.State == personalize.StateAnxious {
		switch depth {
		case explainer.DepthAdvanced:
			depth = explainer.DepthIntermediate
		case explainer.DepthIntermediate:
			depth = explainer.DepthBasic
		}
	}
	return depth
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if phraseSpan(lower, kw) > 0 {
			return true
		}
	}
	return false
}
