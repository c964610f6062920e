package chatmodel

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

var (
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn, most-recent-last in a history slice.
type Message struct {
	Role    Role   `json:"role" yaml:"role" jsonschema:"title=Role,description=Role of the message sender,enum=user,enum=assistant" validate:"required,oneof=user assistant"`
	Content string `json:"content" yaml:"content" jsonschema:"title=Content,description=Content of the message" validate:"required"`
}

// StudentProfile describes the student on whose behalf the tutor is acting.
// The free-text summaries are normalized by the personalize package;
// the profile itself is immutable for the duration of a request.
type StudentProfile struct {
	UserID                string `json:"user_id" yaml:"user_id" jsonschema:"title=UserID,description=Unique identifier for the student" validate:"required"`
	Name                  string `json:"name" yaml:"name" jsonschema:"title=Name,description=Student's full name"`
	GradeLevel            string `json:"grade_level" yaml:"grade_level" jsonschema:"title=GradeLevel,description=Student's current grade level"`
	LearningStyleSummary  string `json:"learning_style_summary" yaml:"learning_style_summary" jsonschema:"title=LearningStyleSummary,description=Summary of student's preferred learning style"`
	EmotionalStateSummary string `json:"emotional_state_summary" yaml:"emotional_state_summary" jsonschema:"title=EmotionalStateSummary,description=Current emotional state of the student"`
	MasteryLevelSummary   string `json:"mastery_level_summary" yaml:"mastery_level_summary" jsonschema:"title=MasteryLevelSummary,description=Current mastery level description"`
}

// ConversationRequest is the orchestration input handed over by the transport.
type ConversationRequest struct {
	Student        StudentProfile `json:"user_info" yaml:"user_info" validate:"required"`
	ChatHistory    []Message      `json:"chat_history" yaml:"chat_history"`
	CurrentMessage string         `json:"current_message" yaml:"current_message" validate:"required"`
}

// ToolRequest is a direct tool invocation that bypasses tool selection.
// Parameters are raw JSON and still go through full inference and validation.
type ToolRequest struct {
	ToolName   string          `json:"tool_name" yaml:"tool_name" validate:"required"`
	Parameters json.RawMessage `json:"parameters" yaml:"parameters"`
}
