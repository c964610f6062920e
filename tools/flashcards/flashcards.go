package flashcards

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
	ToolName    = "flashcard_generator"
	description = "Generates practice flashcards for a topic with difficulty adapted to the student's mastery."
)

// Difficulty levels accepted by the tool.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Card count bounds; inferred counts are clamped into this range,
// explicit counts outside it are rejected.
const (
	MinCount     = 1
	MaxCount     = 20
	DefaultCount = 10
)

// Request represents the tool input.
type Request struct {
	Student         chatmodel.StudentProfile `json:"user_info" yaml:"user_info" jsonschema:"title=UserInfo,description=Student profile the flashcards are generated for." validate:"required"`
	Topic           string                   `json:"topic" yaml:"topic" jsonschema:"title=Topic,description=The topic to generate flashcards on." validate:"required"`
	Subject         string                   `json:"subject,omitempty" yaml:"subject,omitempty" jsonschema:"title=Subject,description=Academic subject the topic belongs to.,default=General Education"`
	Count           int                      `json:"count,omitempty" yaml:"count,omitempty" jsonschema:"title=Count,description=Number of flashcards to generate.,minimum=1,maximum=20,default=10" validate:"omitempty,gte=1,lte=20"`
	Difficulty      string                   `json:"difficulty,omitempty" yaml:"difficulty,omitempty" jsonschema:"title=Difficulty,description=Difficulty of the generated cards.,enum=beginner,enum=intermediate,enum=advanced,default=intermediate" validate:"omitempty,oneof=beginner intermediate advanced"`
	IncludeExamples bool                     `json:"include_examples,omitempty" yaml:"include_examples,omitempty" jsonschema:"title=IncludeExamples,description=Attach an example to each card.,default=true"`
}

// Card is a single flashcard.
type Card struct {
	Title    string `json:"title" yaml:"title"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Example  string `json:"example,omitempty" yaml:"example,omitempty"`
}

// Response represents the generated flashcard set.
type Response struct {
	Flashcards        []Card `json:"flashcards" yaml:"flashcards"`
	Topic             string `json:"topic" yaml:"topic"`
	AdaptationDetails string `json:"adaptation_details" yaml:"adaptation_details"`
	Difficulty        string `json:"difficulty" yaml:"difficulty"`
}

// Tool is the mock flashcard generator backend.
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
	count := req.Count
	if count == 0 {
		count = DefaultCount
	}
	if count < MinCount || count > MaxCount {
		return nil, errors.Newf("invalid request: count %d out of range [%d,%d]", count, MinCount, MaxCount)
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = DifficultyIntermediate
	}

	cards := make([]Card, 0, count)
	for i := 0; i < count; i++ {
		var question, answer, example string
		switch difficulty {
		case DifficultyBeginner:
			question = fmt.Sprintf("What is the basic concept of %s?", topic)
			answer = fmt.Sprintf("The basic concept of %s is fundamental understanding.", topic)
			example = fmt.Sprintf("Example: %s in simple terms", topic)
		case DifficultyAdvanced:
			question = fmt.Sprintf("Explain the advanced applications of %s in %s.", topic, subject)
			answer = fmt.Sprintf("Advanced applications of %s include complex scenarios and real-world implementations.", topic)
			example = fmt.Sprintf("Advanced example: %s in professional context", topic)
		default:
			question = fmt.Sprintf("What are the key principles of %s?", topic)
			answer = fmt.Sprintf("The key principles of %s include core concepts and practical applications.", topic)
			example = fmt.Sprintf("Example: %s in practice", topic)
		}
		if !req.IncludeExamples {
			example = ""
		}
		cards = append(cards, Card{
			Title:    fmt.Sprintf("Question %d", i+1),
			Question: question,
			Answer:   answer,
			Example:  example,
		})
	}

	return &Response{
		Flashcards:        cards,
		Topic:             topic,
		AdaptationDetails: fmt.Sprintf("Adapted for %s difficulty level based on student profile", difficulty),
		Difficulty:        difficulty,
	}, nil
}
