package notemaker

import (
	"context"
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/edugentic/chatmodel"
	"github.com/effective-security/edugentic/encoding"
	"github.com/effective-security/edugentic/schema"
	"github.com/effective-security/edugentic/tools"
)

const (
	ToolName    = "note_maker"
	description = "Generates structured study notes for a topic, adapted to the student's note-taking style."
)

// Note-taking styles accepted by the tool.
const (
	StyleOutline      = "outline"
	StyleBulletPoints = "bullet_points"
	StyleNarrative    = "narrative"
	StyleStructured   = "structured"
)

// Request represents the tool input.
type Request struct {
	Student          chatmodel.StudentProfile `json:"user_info" yaml:"user_info" jsonschema:"title=UserInfo,description=Student profile the notes are generated for." validate:"required"`
	ChatHistory      []chatmodel.Message      `json:"chat_history" yaml:"chat_history" jsonschema:"title=ChatHistory,description=Recent conversation turns for context."`
	Topic            string                   `json:"topic" yaml:"topic" jsonschema:"title=Topic,description=The topic to make notes on." validate:"required"`
	Subject          string                   `json:"subject,omitempty" yaml:"subject,omitempty" jsonschema:"title=Subject,description=Academic subject the topic belongs to.,default=General Education"`
	NoteTakingStyle  string                   `json:"note_taking_style" yaml:"note_taking_style" jsonschema:"title=NoteTakingStyle,description=Layout of the generated notes.,enum=outline,enum=bullet_points,enum=narrative,enum=structured" validate:"required,oneof=outline bullet_points narrative structured"`
	IncludeExamples  bool                     `json:"include_examples,omitempty" yaml:"include_examples,omitempty" jsonschema:"title=IncludeExamples,description=Include worked examples in each section.,default=true"`
	IncludeAnalogies bool                     `json:"include_analogies,omitempty" yaml:"include_analogies,omitempty" jsonschema:"title=IncludeAnalogies,description=Include analogies to aid visual learners.,default=false"`
}

// Section is one block of generated notes.
type Section struct {
	Title     string   `json:"title" yaml:"title"`
	Content   string   `json:"content" yaml:"content"`
	KeyPoints []string `json:"key_points" yaml:"key_points"`
	Examples  []string `json:"examples" yaml:"examples"`
	Analogies []string `json:"analogies" yaml:"analogies"`
}

// VisualElement is a suggested diagram or chart.
type VisualElement struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Response represents the generated notes.
type Response struct {
	Topic                      string          `json:"topic" yaml:"topic"`
	Title                      string          `json:"title" yaml:"title"`
	Summary                    string          `json:"summary" yaml:"summary"`
	NoteSections               []Section       `json:"note_sections" yaml:"note_sections"`
	KeyConcepts                []string        `json:"key_concepts" yaml:"key_concepts"`
	ConnectionsToPriorLearning []string        `json:"connections_to_prior_learning" yaml:"connections_to_prior_learning"`
	VisualElements             []VisualElement `json:"visual_elements" yaml:"visual_elements"`
	PracticeSuggestions        []string        `json:"practice_suggestions" yaml:"practice_suggestions"`
	SourceReferences           []string        `json:"source_references" yaml:"source_references"`
	NoteTakingStyle            string          `json:"note_taking_style" yaml:"note_taking_style"`
}

// Tool is the mock note maker backend.
type Tool struct {
	name        string
	description string
	enc         *encoding.Encoder
}

var _ tools.Tool[Request, Response] = (*Tool)(nil)

func New() (*Tool, error) {
	enc, err := encoding.NewEncoder(Request{})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create encoder")
	}
	return &Tool{
		name:        ToolName,
		description: description,
		enc:         enc,
	}, nil
}

// RegisterSchema adds the tool's parameter contract to the registry.
func RegisterSchema(r *schema.Registry) error {
	return r.Register(ToolName, description, reflect.TypeOf(Request{}))
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return t.enc.Schema().Parameters
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req Request
	if err := t.enc.Unmarshal([]byte(input), &req); err != nil {
		return "", errors.WithMessage(chatmodel.ErrFailedUnmarshalInput, err.Error())
	}
	if err := t.enc.Validate(req); err != nil {
		return "", errors.WithMessage(err, "invalid request")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	bs, err := t.enc.Marshal(out)
	if err != nil {
		return "", errors.WithMessage(err, "failed to marshal output")
	}
	return string(bs), nil
}

func (t *Tool) Run(ctx context.Context, req *Request) (*Response, error) {
	if req.Topic == "" {
		return nil, errors.New("invalid request: empty topic")
	}

	topic := req.Topic
	subject := req.Subject
	if subject == "" {
		subject = "General Education"
	}

	var sections []Section
	switch req.NoteTakingStyle {
	case StyleStructured:
		sections = []Section{
			{
				Title:     "Introduction",
				Content:   fmt.Sprintf("Introduction to %s in %s", topic, subject),
				KeyPoints: []string{fmt.Sprintf("Key concept 1 of %s", topic), fmt.Sprintf("Key concept 2 of %s", topic)},
				Examples:  examples(req.IncludeExamples, fmt.Sprintf("Example 1: %s in practice", topic), fmt.Sprintf("Example 2: %s application", topic)),
				Analogies: examples(req.IncludeAnalogies, fmt.Sprintf("Think of %s like...", topic)),
			},
			{
				Title:     "Main Concepts",
				Content:   fmt.Sprintf("Core concepts of %s", topic),
				KeyPoints: []string{fmt.Sprintf("Concept A: %s fundamentals", topic), fmt.Sprintf("Concept B: %s applications", topic)},
				Examples:  examples(req.IncludeExamples, fmt.Sprintf("Real-world example of %s", topic)),
				Analogies: examples(req.IncludeAnalogies, fmt.Sprintf("%s is similar to...", topic)),
			},
		}
	case StyleBulletPoints:
		sections = []Section{
			{
				Title:     fmt.Sprintf("%s Overview", topic),
				Content:   fmt.Sprintf("Key points about %s", topic),
				KeyPoints: []string{fmt.Sprintf("• Point 1: %s basics", topic), fmt.Sprintf("• Point 2: %s importance", topic)},
				Examples:  examples(req.IncludeExamples, fmt.Sprintf("• Example: %s in action", topic)),
				Analogies: examples(req.IncludeAnalogies, fmt.Sprintf("• Analogy: %s is like...", topic)),
			},
		}
	default: // narrative or outline
		sections = []Section{
			{
				Title:     fmt.Sprintf("Understanding %s", topic),
				Content:   fmt.Sprintf("A comprehensive look at %s in %s", topic, subject),
				KeyPoints: []string{fmt.Sprintf("Main idea: %s fundamentals", topic), fmt.Sprintf("Application: %s in practice", topic)},
				Examples:  examples(req.IncludeExamples, fmt.Sprintf("Example: %s case study", topic)),
				Analogies: examples(req.IncludeAnalogies, fmt.Sprintf("Analogy: %s comparison", topic)),
			},
		}
	}

	return &Response{
		Topic:        topic,
		Title:        fmt.Sprintf("Notes on %s", topic),
		Summary:      fmt.Sprintf("Comprehensive notes covering %s with examples and key concepts.", topic),
		NoteSections: sections,
		KeyConcepts: []string{
			fmt.Sprintf("Concept 1: %s basics", topic),
			fmt.Sprintf("Concept 2: %s applications", topic),
			fmt.Sprintf("Concept 3: %s importance", topic),
		},
		ConnectionsToPriorLearning: []string{
			fmt.Sprintf("Builds on previous %s knowledge", subject),
			fmt.Sprintf("Connects to %s fundamentals", topic),
		},
		VisualElements: []VisualElement{
			{Type: "diagram", Description: fmt.Sprintf("%s process flow", topic)},
		},
		PracticeSuggestions: []string{
			fmt.Sprintf("Practice exercise 1: %s basics", topic),
			fmt.Sprintf("Practice exercise 2: %s application", topic),
		},
		SourceReferences: []string{
			fmt.Sprintf("Reference 1: %s textbook", topic),
			fmt.Sprintf("Reference 2: %s online resources", topic),
		},
		NoteTakingStyle: req.NoteTakingStyle,
	}, nil
}

func examples(include bool, list ...string) []string {
	if !include {
		return []string{}
	}
	return list
}
