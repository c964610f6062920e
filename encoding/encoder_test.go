package encoding_test

import (
	"testing"

	"github.com/effective-security/edugentic/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cardRequest struct {
	Topic      string `json:"topic" jsonschema:"title=Topic,description=The topic." validate:"required"`
	Count      int    `json:"count,omitempty" jsonschema:"title=Count,minimum=1,maximum=20,default=10" validate:"omitempty,gte=1,lte=20"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"title=Difficulty,enum=beginner,enum=intermediate,enum=advanced" validate:"omitempty,oneof=beginner intermediate advanced"`
}

func Test_Encoder(t *testing.T) {
	enc, err := encoding.NewEncoder(cardRequest{})
	require.NoError(t, err)

	var req cardRequest
	// tolerant of prose and backticks around the payload
	input := "Sure, here are the parameters:\n```json\n{\"topic\": \"algebra\", \"count\": 5}\n```"
	require.NoError(t, enc.Unmarshal([]byte(input), &req))
	assert.Equal(t, "algebra", req.Topic)
	assert.Equal(t, 5, req.Count)

	require.NoError(t, enc.Validate(req))

	bs, err := enc.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"algebra","count":5}`, string(bs))
}

func Test_Encoder_Validate(t *testing.T) {
	enc, err := encoding.NewEncoder(cardRequest{})
	require.NoError(t, err)

	// missing required topic
	assert.Error(t, enc.Validate(cardRequest{Count: 5}))
	// out of range count
	assert.Error(t, enc.Validate(cardRequest{Topic: "algebra", Count: 50}))
	// invalid enum value
	assert.Error(t, enc.Validate(cardRequest{Topic: "algebra", Difficulty: "expert"}))

	assert.NoError(t, enc.Validate(cardRequest{Topic: "algebra", Count: 5, Difficulty: "beginner"}))
}

func Test_Encoder_FormatInstructions(t *testing.T) {
	enc, err := encoding.NewEncoder(cardRequest{})
	require.NoError(t, err)

	instr := enc.GetFormatInstructions()
	assert.Contains(t, instr, "JSON schema")
	assert.Contains(t, instr, "topic")
	assert.NotNil(t, enc.Schema())
}
