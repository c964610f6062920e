package encoding

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/bububa/ljson"
	"github.com/effective-security/edugentic/llmutils"
	"github.com/effective-security/edugentic/schema"
	"github.com/go-playground/validator/v10"
)

// SchemaEncoder marshals and unmarshals tool payloads against a typed schema.
type SchemaEncoder interface {
	Marshal(req any) ([]byte, error)
	Unmarshal([]byte, any) error
	// GetFormatInstructions returns the message schema for the prompt
	GetFormatInstructions() string
}

// Validator checks a decoded value against its declared constraints.
type Validator interface {
	Validate(any) error
}

// Encoder is a JSON SchemaEncoder tolerant of model output: payloads may be
// wrapped in prose or backticks and may be slightly malformed.
type Encoder struct {
	schema   *schema.Schema
	validate *validator.Validate
}

var (
	_ SchemaEncoder = (*Encoder)(nil)
	_ Validator     = (*Encoder)(nil)
)

func NewEncoder(req any) (*Encoder, error) {
	t := reflect.TypeOf(req)
	sc, err := schema.New(t)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		schema:   sc,
		validate: validator.New(),
	}, nil
}

func (e *Encoder) Marshal(req any) ([]byte, error) {
	return json.Marshal(req)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.CleanJSON(bs)
	return ljson.Unmarshal(data, ret)
}

func (e *Encoder) Validate(req any) error {
	return e.validate.Struct(req)
}

func (e *Encoder) GetFormatInstructions() string {
	var b bytes.Buffer
	b.WriteString("\nRespond with JSON in the following JSON schema:\n")
	b.WriteString("```json\n")
	b.WriteString(e.schema.String())
	b.WriteString("\n```")
	b.WriteString("\nMake sure to return an instance of the JSON, not the schema itself.\n")
	b.WriteString("Use the exact field names as they are defined in the schema.\n")
	return b.String()
}

func (e *Encoder) Schema() *schema.Schema {
	return e.schema
}
