package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/effective-security/edugentic/config"
	"github.com/effective-security/edugentic/extract"
	"github.com/effective-security/edugentic/httpserver"
	"github.com/effective-security/edugentic/orchestrator"
	"github.com/effective-security/edugentic/schema"
	"github.com/effective-security/edugentic/tools/explainer"
	"github.com/effective-security/edugentic/tools/flashcards"
	"github.com/effective-security/edugentic/tools/notemaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newServer(t *testing.T) *httpserver.Server {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	reg := schema.NewRegistry()
	require.NoError(t, notemaker.RegisterSchema(reg))
	require.NoError(t, flashcards.RegisterSchema(reg))
	require.NoError(t, explainer.RegisterSchema(reg))

	nm, err := notemaker.New()
	require.NoError(t, err)
	fc, err := flashcards.New()
	require.NoError(t, err)
	ce, err := explainer.New()
	require.NoError(t, err)

	orch := orchestrator.New(reg, extract.NewExtractor(extract.DefaultLexicon())).
		WithTools(nm, fc, ce)
	return httpserver.New(cfg, orch)
}

func Test_Health(t *testing.T) {
	srv := newServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", gjson.Get(w.Body.String(), "status").String())
}

func Test_Orchestrate(t *testing.T) {
	srv := newServer(t)

	body := `{
		"user_info": {
			"user_id": "student123",
			"mastery_level_summary": "Level 5"
		},
		"chat_history": [],
		"current_message": "Can you quiz me on photosynthesis?"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orchestrate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	res := w.Body.String()
	assert.True(t, gjson.Get(res, "success").Bool())
	assert.Equal(t, "flashcard_generator", gjson.Get(res, "tool_name").String())
	assert.Equal(t, "photosynthesis", gjson.Get(res, "response_data.topic").String())
}

func Test_Orchestrate_Clarification(t *testing.T) {
	srv := newServer(t)

	body := `{
		"user_info": {"user_id": "student123"},
		"current_message": "hi"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orchestrate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	// a clarification is a structured result, not a transport failure
	require.Equal(t, http.StatusOK, w.Code)
	res := w.Body.String()
	assert.False(t, gjson.Get(res, "success").Bool())
	assert.NotEmpty(t, gjson.Get(res, "clarification").String())
	assert.Equal(t, "clarification_needed", gjson.Get(res, "error.code").String())
}

func Test_Orchestrate_BadRequest(t *testing.T) {
	srv := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orchestrate", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_DirectCall(t *testing.T) {
	srv := newServer(t)

	body := `{
		"parameters": {
			"user_info": {"user_id": "student123"},
			"topic": "algebra",
			"count": 2
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/tools/flashcard_generator", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	res := w.Body.String()
	assert.True(t, gjson.Get(res, "success").Bool())
	assert.Len(t, gjson.Get(res, "response_data.flashcards").Array(), 2)
}

func Test_DirectCall_UnknownTool(t *testing.T) {
	srv := newServer(t)

	body := `{"parameters": {"topic": "algebra"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/tools/essay_grader", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "schema_not_found", gjson.Get(w.Body.String(), "error.code").String())
}

func Test_ListTools(t *testing.T) {
	srv := newServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tools", nil))

	require.Equal(t, http.StatusOK, w.Code)
	res := w.Body.String()
	assert.Len(t, gjson.Get(res, "available_tools").Array(), 3)
	assert.True(t, gjson.Get(res, "tool_schemas.note_maker").Exists())
	assert.True(t, gjson.Get(res, "tool_schemas.flashcard_generator.parameters").IsArray())

	prompt := gjson.Get(res, "tool_prompt").String()
	assert.Contains(t, prompt, "note_maker")
	assert.Contains(t, prompt, "concept_explainer")
}
