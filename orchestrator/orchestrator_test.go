package orchestrator_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/edugentic/chatmodel"
	"github.com/effective-security/edugentic/extract"
	"github.com/effective-security/edugentic/orchestrator"
	"github.com/effective-security/edugentic/tools"
	"github.com/effective-security/edugentic/tools/explainer"
	"github.com/effective-security/edugentic/tools/flashcards"
	"github.com/effective-security/edugentic/tools/notemaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newOrchestrator(t *testing.T, options ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()
	nm, err := notemaker.New()
	require.NoError(t, err)
	fc, err := flashcards.New()
	require.NoError(t, err)
	ce, err := explainer.New()
	require.NoError(t, err)

	return orchestrator.New(newRegistry(t), extract.NewExtractor(extract.DefaultLexicon()), options...).
		WithTools(nm, fc, ce)
}

func Test_Run_Flashcards(t *testing.T) {
	orch := newOrchestrator(t)

	env := orch.Run(context.Background(), &chatmodel.ConversationRequest{
		Student:        *studentProfile("Level 5", "Feeling focused", ""),
		CurrentMessage: "Can you quiz me on photosynthesis?",
	})
	require.NotNil(t, env)
	require.Nil(t, env.Error)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, flashcards.ToolName, env.ToolName)

	payload := string(env.Payload)
	assert.Equal(t, "photosynthesis", gjson.Get(payload, "topic").String())
	assert.Len(t, gjson.Get(payload, "flashcards").Array(), flashcards.DefaultCount)
}

func Test_Run_Explainer(t *testing.T) {
	orch := newOrchestrator(t)

	env := orch.Run(context.Background(), &chatmodel.ConversationRequest{
		Student: *studentProfile("Level 2", "Confused about the material", ""),
		ChatHistory: []chatmodel.Message{
			{Role: chatmodel.RoleUser, Content: "We were studying biology"},
		},
		CurrentMessage: "I don't understand photosynthesis",
	})
	require.Nil(t, env.Error)
	assert.True(t, env.Success)
	assert.Equal(t, explainer.ToolName, env.ToolName)
	assert.Contains(t, gjson.GetBytes(env.Payload, "explanation").String(), "basic")
}

func Test_Run_NoteMaker(t *testing.T) {
	orch := newOrchestrator(t)

	env := orch.Run(context.Background(), &chatmodel.ConversationRequest{
		Student:        *studentProfile("Level 6", "", "Prefers visual diagrams and charts"),
		CurrentMessage: "make notes on calculus",
	})
	require.Nil(t, env.Error)
	assert.True(t, env.Success)
	assert.Equal(t, notemaker.ToolName, env.ToolName)
	assert.Equal(t, "structured", gjson.GetBytes(env.Payload, "note_taking_style").String())
}

func Test_Run_Clarification(t *testing.T) {
	orch := newOrchestrator(t)

	env := orch.Run(context.Background(), &chatmodel.ConversationRequest{
		Student:        *studentProfile("", "", ""),
		CurrentMessage: "hi",
	})
	assert.False(t, env.Success)
	assert.Equal(t, orchestrator.ClarificationPrompt, env.Clarification)
	require.NotNil(t, env.Error)
	assert.Equal(t, orchestrator.CodeClarificationNeeded, env.Error.Code)
	assert.Empty(t, env.ToolName)
}

func Test_Run_ToolFailure(t *testing.T) {
	orch := orchestrator.New(newRegistry(t), extract.NewExtractor(extract.DefaultLexicon())).
		WithTools(&failingTool{name: notemaker.ToolName})

	env := orch.Run(context.Background(), &chatmodel.ConversationRequest{
		Student:        *studentProfile("Level 5", "", ""),
		CurrentMessage: "make notes on calculus",
	})
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, orchestrator.CodeToolInvocationError, env.Error.Code)
	assert.Equal(t, "broken backend", env.Error.Message)
}

func Test_Run_NoBackend(t *testing.T) {
	// schema registered, no backend wired
	orch := orchestrator.New(newRegistry(t), extract.NewExtractor(extract.DefaultLexicon()))

	env := orch.Run(context.Background(), &chatmodel.ConversationRequest{
		Student:        *studentProfile("Level 5", "", ""),
		CurrentMessage: "make notes on calculus",
	})
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, orchestrator.CodeSchemaNotFound, env.Error.Code)
}

func Test_DirectCall(t *testing.T) {
	orch := newOrchestrator(t)

	env := orch.DirectCall(context.Background(), &chatmodel.ToolRequest{
		ToolName: flashcards.ToolName,
		Parameters: []byte(`{
			"user_info": {"user_id": "student123", "mastery_level_summary": "Level 5"},
			"topic": "algebra",
			"count": 3
		}`),
	})
	require.NotNil(t, env)
	require.Nil(t, env.Error)
	assert.True(t, env.Success)
	assert.Equal(t, flashcards.ToolName, env.ToolName)
	assert.Len(t, gjson.GetBytes(env.Payload, "flashcards").Array(), 3)
}

func Test_DirectCall_SubjectFromLexicon(t *testing.T) {
	fc := &countingTool{name: flashcards.ToolName}
	ce := &countingTool{name: explainer.ToolName}
	orch := orchestrator.New(newRegistry(t), extract.NewExtractor(extract.DefaultLexicon())).
		WithTools(fc, ce)

	env := orch.DirectCall(context.Background(), &chatmodel.ToolRequest{
		ToolName: flashcards.ToolName,
		Parameters: []byte(`{
			"user_info": {"user_id": "student123"},
			"topic": "algebra"
		}`),
	})
	require.Nil(t, env.Error)
	assert.True(t, env.Success)
	// the explicit topic resolves the subject through the lexicon
	assert.Equal(t, "Mathematics", gjson.Get(fc.input, "subject").String())

	env = orch.DirectCall(context.Background(), &chatmodel.ToolRequest{
		ToolName: explainer.ToolName,
		Parameters: []byte(`{
			"user_info": {"user_id": "student123"},
			"concept_to_explain": "photosynthesis"
		}`),
	})
	require.Nil(t, env.Error)
	assert.True(t, env.Success)
	assert.Equal(t, "Biology", gjson.Get(ce.input, "current_topic").String())
}

func Test_DirectCall_UnknownTool(t *testing.T) {
	orch := newOrchestrator(t)

	env := orch.DirectCall(context.Background(), &chatmodel.ToolRequest{
		ToolName:   "essay_grader",
		Parameters: []byte(`{"topic": "algebra"}`),
	})
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, orchestrator.CodeSchemaNotFound, env.Error.Code)
}

func Test_DirectCall_ValidationNoDispatch(t *testing.T) {
	counting := &countingTool{name: flashcards.ToolName}
	orch := orchestrator.New(newRegistry(t), extract.NewExtractor(extract.DefaultLexicon())).
		WithTools(counting)

	env := orch.DirectCall(context.Background(), &chatmodel.ToolRequest{
		ToolName: flashcards.ToolName,
		Parameters: []byte(`{
			"user_info": {"user_id": "student123"},
			"topic": "algebra",
			"count": -1
		}`),
	})
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, orchestrator.CodeValidationError, env.Error.Code)
	require.Len(t, env.Error.Fields, 1)
	assert.Equal(t, "count", env.Error.Fields[0].Name)
	// the backend must never see invalid parameters
	assert.Equal(t, 0, counting.calls)
}

func Test_Run_Callback(t *testing.T) {
	rec := &recordingCallback{}
	orch := newOrchestrator(t, orchestrator.WithCallback(rec))

	env := orch.Run(context.Background(), &chatmodel.ConversationRequest{
		Student:        *studentProfile("Level 5", "", ""),
		CurrentMessage: "quiz me on algebra",
	})
	assert.True(t, env.Success)
	assert.Equal(t, []string{"selected:" + flashcards.ToolName, "start", "end"}, rec.events)

	rec.events = nil
	env = orch.Run(context.Background(), &chatmodel.ConversationRequest{
		Student:        *studentProfile("", "", ""),
		CurrentMessage: "hello",
	})
	assert.False(t, env.Success)
	assert.Equal(t, []string{"clarification"}, rec.events)
}

func Test_Tools(t *testing.T) {
	orch := newOrchestrator(t)
	assert.ElementsMatch(t,
		[]string{notemaker.ToolName, flashcards.ToolName, explainer.ToolName},
		orch.Tools())
	assert.Len(t, orch.Registry().Names(), 3)

	backends := orch.Backends()
	require.Len(t, backends, 3)
	for i, name := range orch.Tools() {
		assert.Equal(t, name, backends[i].Name())
	}
}

type failingTool struct {
	name string
}

func (t *failingTool) Name() string        { return t.name }
func (t *failingTool) Description() string { return "always fails" }
func (t *failingTool) Parameters() any     { return nil }
func (t *failingTool) Call(ctx context.Context, input string) (string, error) {
	return "", errors.New("broken backend")
}

type countingTool struct {
	name  string
	calls int
	input string
}

func (t *countingTool) Name() string        { return t.name }
func (t *countingTool) Description() string { return "counts calls" }
func (t *countingTool) Parameters() any     { return nil }
func (t *countingTool) Call(ctx context.Context, input string) (string, error) {
	t.calls++
	t.input = input
	return "{}", nil
}

type recordingCallback struct {
	events []string
}

func (r *recordingCallback) OnToolSelected(ctx context.Context, tool string, ec extract.Context) {
	r.events = append(r.events, "selected:"+tool)
}

func (r *recordingCallback) OnClarificationNeeded(ctx context.Context, message string) {
	r.events = append(r.events, "clarification")
}

func (r *recordingCallback) OnValidationFailed(ctx context.Context, tool string, verr *orchestrator.ValidationError) {
	r.events = append(r.events, "validation")
}

func (r *recordingCallback) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	r.events = append(r.events, "start")
}

func (r *recordingCallback) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string) {
	r.events = append(r.events, "end")
}

func (r *recordingCallback) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	r.events = append(r.events, "error")
}

func (r *recordingCallback) OnToolNotFound(ctx context.Context, tool string) {
	r.events = append(r.events, "not_found")
}
