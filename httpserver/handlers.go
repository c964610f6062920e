package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/effective-security/edugentic/chatmodel"
	"github.com/effective-security/edugentic/orchestrator"
	"github.com/effective-security/edugentic/schema"
	"github.com/effective-security/edugentic/tools"
	"github.com/effective-security/xlog"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "AI Tutor Orchestrator is running!",
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleOrchestrate(c *gin.Context) {
	var req chatmodel.ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := chatmodel.WithChatContext(c.Request.Context(),
		chatmodel.NewChatContext(c.GetHeader("X-Chat-ID"), &req.Student))

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "orchestrate",
		"user", req.Student.UserID,
	)

	env := s.orch.Run(ctx, &req)
	c.JSON(statusFor(env), env)
}

// directCallBody is the direct-call payload; the tool name in the path wins
// over one embedded in the body.
type directCallBody struct {
	ToolName   string          `json:"tool_name"`
	Parameters json.RawMessage `json:"parameters"`
}

func (s *Server) handleDirectCall(c *gin.Context) {
	var body directCallBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	req := &chatmodel.ToolRequest{
		ToolName:   c.Param("tool"),
		Parameters: body.Parameters,
	}

	ctx := chatmodel.WithChatContext(c.Request.Context(),
		chatmodel.NewChatContext(c.GetHeader("X-Chat-ID"), nil))

	env := s.orch.DirectCall(ctx, req)
	c.JSON(statusFor(env), env)
}

func (s *Server) handleListTools(c *gin.Context) {
	schemas := s.orch.Registry().Schemas()
	byName := make(map[string]*schema.ToolSchema, len(schemas))
	for _, ts := range schemas {
		byName[ts.Name] = ts
	}
	c.JSON(http.StatusOK, gin.H{
		"available_tools": s.orch.Registry().Names(),
		"tool_schemas":    byName,
		"tool_prompt":     tools.GetDescriptions(s.orch.Backends()...),
	})
}

// statusFor maps envelope outcomes onto HTTP codes. Clarification and
// validation outcomes are structured results, not transport failures.
func statusFor(env *orchestrator.Envelope) int {
	if env.Error != nil && env.Error.Code == orchestrator.CodeSchemaNotFound {
		return http.StatusNotFound
	}
	return http.StatusOK
}
