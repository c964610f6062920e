package notemaker_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/effective-security/edugentic/chatmodel"
	"github.com/effective-security/edugentic/schema"
	"github.com/effective-security/edugentic/tools/notemaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var student = chatmodel.StudentProfile{
	UserID:               "student123",
	Name:                 "Alice",
	LearningStyleSummary: "Prefers visual diagrams",
}

func Test_Tool(t *testing.T) {
	tool, err := notemaker.New()
	require.NoError(t, err)
	assert.Equal(t, "note_maker", tool.Name())
	assert.NotEmpty(t, tool.Description())
	assert.NotNil(t, tool.Parameters())
}

func Test_Run_Structured(t *testing.T) {
	tool, err := notemaker.New()
	require.NoError(t, err)

	res, err := tool.Run(context.Background(), &notemaker.Request{
		Student:          student,
		Topic:            "photosynthesis",
		Subject:          "Biology",
		NoteTakingStyle:  notemaker.StyleStructured,
		IncludeExamples:  true,
		IncludeAnalogies: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "photosynthesis", res.Topic)
	assert.Equal(t, notemaker.StyleStructured, res.NoteTakingStyle)
	require.Len(t, res.NoteSections, 2)
	assert.NotEmpty(t, res.NoteSections[0].Examples)
	assert.NotEmpty(t, res.NoteSections[0].Analogies)
	assert.NotEmpty(t, res.KeyConcepts)
	assert.NotEmpty(t, res.PracticeSuggestions)
}

func Test_Run_BulletPoints(t *testing.T) {
	tool, err := notemaker.New()
	require.NoError(t, err)

	res, err := tool.Run(context.Background(), &notemaker.Request{
		Student:         student,
		Topic:           "calculus",
		NoteTakingStyle: notemaker.StyleBulletPoints,
	})
	require.NoError(t, err)
	require.Len(t, res.NoteSections, 1)
	// examples and analogies were not requested
	assert.Empty(t, res.NoteSections[0].Examples)
	assert.Empty(t, res.NoteSections[0].Analogies)
}

func Test_Run_EmptyTopic(t *testing.T) {
	tool, err := notemaker.New()
	require.NoError(t, err)

	_, err = tool.Run(context.Background(), &notemaker.Request{
		Student:         student,
		NoteTakingStyle: notemaker.StyleOutline,
	})
	assert.EqualError(t, err, "invalid request: empty topic")
}

func Test_Call(t *testing.T) {
	tool, err := notemaker.New()
	require.NoError(t, err)

	input := `{
		"user_info": {"user_id": "student123"},
		"chat_history": [],
		"topic": "algebra",
		"note_taking_style": "outline",
		"include_examples": true
	}`
	out, err := tool.Call(context.Background(), input)
	require.NoError(t, err)

	var res notemaker.Response
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "algebra", res.Topic)
	assert.Equal(t, notemaker.StyleOutline, res.NoteTakingStyle)
}

func Test_Call_InvalidStyle(t *testing.T) {
	tool, err := notemaker.New()
	require.NoError(t, err)

	input := `{
		"user_info": {"user_id": "student123"},
		"topic": "algebra",
		"note_taking_style": "doodles"
	}`
	_, err = tool.Call(context.Background(), input)
	assert.Error(t, err)
}

func Test_RegisterSchema(t *testing.T) {
	r := schema.NewRegistry()
	require.NoError(t, notemaker.RegisterSchema(r))

	ts, err := r.Get(notemaker.ToolName)
	require.NoError(t, err)
	assert.Contains(t, ts.Required(), "topic")
	assert.Contains(t, ts.Required(), "note_taking_style")

	style, ok := ts.Parameter("note_taking_style")
	require.True(t, ok)
	assert.ElementsMatch(t,
		[]string{"outline", "bullet_points", "narrative", "structured"}, style.Enum)
}
