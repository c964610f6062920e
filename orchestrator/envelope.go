package orchestrator

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Code classifies a non-success outcome of an orchestration run.
type Code string

const (
	CodeClarificationNeeded Code = "clarification_needed"
	CodeValidationError     Code = "validation_error"
	CodeToolInvocationError Code = "tool_invocation_error"
	CodeSchemaNotFound      Code = "schema_not_found"
)

// FieldError names one parameter that failed resolution or validation.
type FieldError struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// ErrorDetail carries the structured failure information of an envelope.
type ErrorDetail struct {
	Code    Code         `json:"code" yaml:"code"`
	Message string       `json:"message" yaml:"message"`
	Fields  []FieldError `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Envelope is the uniform result wrapper returned for every orchestration
// run, success or failure. The core always produces a well-formed envelope;
// no error propagates past this boundary.
type Envelope struct {
	RequestID     string          `json:"request_id" yaml:"request_id"`
	Success       bool            `json:"success" yaml:"success"`
	ToolName      string          `json:"tool_name,omitempty" yaml:"tool_name,omitempty"`
	Payload       json.RawMessage `json:"response_data,omitempty" yaml:"response_data,omitempty"`
	Clarification string          `json:"clarification,omitempty" yaml:"clarification,omitempty"`
	Error         *ErrorDetail    `json:"error,omitempty" yaml:"error,omitempty"`
}

func newSuccessEnvelope(tool string, payload []byte) *Envelope {
	return &Envelope{
		RequestID: uuid.NewString(),
		Success:   true,
		ToolName:  tool,
		Payload:   json.RawMessage(payload),
	}
}

func newClarificationEnvelope(prompt string) *Envelope {
	return &Envelope{
		RequestID:     uuid.NewString(),
		Success:       false,
		Clarification: prompt,
		Error: &ErrorDetail{
			Code:    CodeClarificationNeeded,
			Message: prompt,
		},
	}
}

func newErrorEnvelope(tool string, code Code, message string, fields []FieldError) *Envelope {
	return &Envelope{
		RequestID: uuid.NewString(),
		Success:   false,
		ToolName:  tool,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
}

// ValidationError reports parameters that could not be resolved or that
// violate the tool schema. It is never dispatched past inference.
type ValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed for tool ")
	b.WriteString(e.Tool)
	b.WriteString(":")
	for _, f := range e.Fields {
		b.WriteString(" ")
		b.WriteString(f.Name)
		b.WriteString(" (")
		b.WriteString(f.Reason)
		b.WriteString(");")
	}
	return strings.TrimSuffix(b.String(), ";")
}
