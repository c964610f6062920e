package chatmodel_test

import (
	"encoding/json"
	"testing"

	"github.com/effective-security/edugentic/chatmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ConversationRequest(t *testing.T) {
	body := `{
	"user_info": {
		"user_id": "student123",
		"name": "Alice",
		"grade_level": "10",
		"learning_style_summary": "Prefers visual diagrams",
		"emotional_state_summary": "Focused and motivated",
		"mastery_level_summary": "Level 7"
	},
	"chat_history": [
		{"role": "user", "content": "I need help with calculus"},
		{"role": "assistant", "content": "Happy to help!"}
	],
	"current_message": "Can you make notes on derivatives?"
}`
	var req chatmodel.ConversationRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "student123", req.Student.UserID)
	assert.Equal(t, "Level 7", req.Student.MasteryLevelSummary)
	require.Len(t, req.ChatHistory, 2)
	assert.Equal(t, chatmodel.RoleUser, req.ChatHistory[0].Role)
	assert.Equal(t, "Can you make notes on derivatives?", req.CurrentMessage)
}

func Test_ToolRequest(t *testing.T) {
	body := `{"tool_name": "flashcard_generator", "parameters": {"topic": "algebra", "count": 3}}`
	var req chatmodel.ToolRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "flashcard_generator", req.ToolName)
	assert.JSONEq(t, `{"topic": "algebra", "count": 3}`, string(req.Parameters))
}
