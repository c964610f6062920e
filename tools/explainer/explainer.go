package explainer

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
	ToolName    = "concept_explainer"
	description = "Explains a concept at a chosen depth with examples, related concepts and practice questions."
)

// Explanation depths accepted by the tool.
const (
	DepthBasic         = "basic"
	DepthIntermediate  = "intermediate"
	DepthAdvanced      = "advanced"
	DepthComprehensive = "comprehensive"
)

// Request represents the tool input.
type Request struct {
	Student      chatmodel.StudentProfile `json:"user_info" yaml:"user_info" jsonschema:"title=UserInfo,description=Student profile the explanation is tailored to." validate:"required"`
	ChatHistory  []chatmodel.Message      `json:"chat_history" yaml:"chat_history" jsonschema:"title=ChatHistory,description=Recent conversation turns for context."`
	Concept      string                   `json:"concept_to_explain" yaml:"concept_to_explain" jsonschema:"title=ConceptToExplain,description=The concept to explain." validate:"required"`
	CurrentTopic string                   `json:"current_topic,omitempty" yaml:"current_topic,omitempty" jsonschema:"title=CurrentTopic,description=Broader topic the concept belongs to.,default=General Education"`
	DesiredDepth string                   `json:"desired_depth,omitempty" yaml:"desired_depth,omitempty" jsonschema:"title=DesiredDepth,description=How deep the explanation should go.,enum=basic,enum=intermediate,enum=advanced,enum=comprehensive,default=intermediate" validate:"omitempty,oneof=basic intermediate advanced comprehensive"`
}

// Response represents the generated explanation.
type Response struct {
	Explanation       string   `json:"explanation" yaml:"explanation"`
	Examples          []string `json:"examples" yaml:"examples"`
	RelatedConcepts   []string `json:"related_concepts" yaml:"related_concepts"`
	VisualAids        []string `json:"visual_aids" yaml:"visual_aids"`
	PracticeQuestions []string `json:"practice_questions" yaml:"practice_questions"`
	SourceReferences  []string `json:"source_references" yaml:"source_references"`
}

// Tool is the mock concept explainer backend.
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
	if req.Concept == "" {
		return nil, errors.New("invalid request: empty concept")
	}

	concept := req.Concept
	depth := req.DesiredDepth
	if depth == "" {
		depth = DepthIntermediate
	}

	return &Response{
		Explanation: fmt.Sprintf("This is a %s explanation of %s. It covers the fundamental principles and applications.", depth, concept),
		Examples: []string{
			fmt.Sprintf("Example 1: %s in real-world scenario", concept),
			fmt.Sprintf("Example 2: %s in academic context", concept),
		},
		RelatedConcepts: []string{"Related concept 1", "Related concept 2"},
		VisualAids:      []string{"Diagram suggestion", "Chart recommendation"},
		PracticeQuestions: []string{
			fmt.Sprintf("How does %s work?", concept),
			fmt.Sprintf("What are the applications of %s?", concept),
		},
		SourceReferences: []string{"Reference 1", "Reference 2"},
	}, nil
}
