package explainer_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/effective-security/edugentic/chatmodel"
	"github.com/effective-security/edugentic/schema"
	"github.com/effective-security/edugentic/tools/explainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var student = chatmodel.StudentProfile{
	UserID: "student123",
}

func Test_Tool(t *testing.T) {
	tool, err := explainer.New()
	require.NoError(t, err)
	assert.Equal(t, "concept_explainer", tool.Name())
	assert.NotEmpty(t, tool.Description())
	assert.NotNil(t, tool.Parameters())
}

func Test_Run(t *testing.T) {
	tool, err := explainer.New()
	require.NoError(t, err)

	res, err := tool.Run(context.Background(), &explainer.Request{
		Student:      student,
		Concept:      "photosynthesis",
		CurrentTopic: "Biology",
		DesiredDepth: explainer.DepthBasic,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Explanation, "basic explanation of photosynthesis")
	assert.NotEmpty(t, res.Examples)
	assert.NotEmpty(t, res.PracticeQuestions)
}

func Test_Run_DefaultDepth(t *testing.T) {
	tool, err := explainer.New()
	require.NoError(t, err)

	res, err := tool.Run(context.Background(), &explainer.Request{
		Student: student,
		Concept: "derivatives",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Explanation, "intermediate explanation of derivatives")
}

func Test_Run_EmptyConcept(t *testing.T) {
	tool, err := explainer.New()
	require.NoError(t, err)

	_, err = tool.Run(context.Background(), &explainer.Request{Student: student})
	assert.EqualError(t, err, "invalid request: empty concept")
}

func Test_Call_WrappedJSON(t *testing.T) {
	tool, err := explainer.New()
	require.NoError(t, err)

	// the payload may arrive wrapped in prose
	input := "Here are the parameters:\n" + `{
		"user_info": {"user_id": "student123"},
		"concept_to_explain": "gravity",
		"desired_depth": "comprehensive"
	}`
	out, err := tool.Call(context.Background(), input)
	require.NoError(t, err)

	var res explainer.Response
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Contains(t, res.Explanation, "comprehensive explanation of gravity")
}

func Test_Call_InvalidDepth(t *testing.T) {
	tool, err := explainer.New()
	require.NoError(t, err)

	input := `{
		"user_info": {"user_id": "student123"},
		"concept_to_explain": "gravity",
		"desired_depth": "bottomless"
	}`
	_, err = tool.Call(context.Background(), input)
	assert.Error(t, err)
}

func Test_RegisterSchema(t *testing.T) {
	r := schema.NewRegistry()
	require.NoError(t, explainer.RegisterSchema(r))

	ts, err := r.Get(explainer.ToolName)
	require.NoError(t, err)
	assert.Contains(t, ts.Required(), "concept_to_explain")

	depth, ok := ts.Parameter("desired_depth")
	require.True(t, ok)
	assert.ElementsMatch(t,
		[]string{"basic", "intermediate", "advanced", "comprehensive"}, depth.Enum)
}
