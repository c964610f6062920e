package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/edugentic/chatmodel"
	"github.com/effective-security/edugentic/extract"
	"github.com/effective-security/edugentic/llmutils"
	"github.com/effective-security/edugentic/personalize"
	"github.com/effective-security/edugentic/pkg/metricskey"
	"github.com/effective-security/edugentic/schema"
	"github.com/effective-security/edugentic/tools"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/edugentic", "orchestrator")

// MaxMessageLength bounds the sanitized current message.
const MaxMessageLength = 1000

// DefaultCallTimeout bounds the single external tool call so one slow
// backend cannot stall unrelated concurrent requests.
const DefaultCallTimeout = 30 * time.Second

// Callback observes orchestration progress.
type Callback interface {
	OnToolSelected(ctx context.Context, tool string, ec extract.Context)
	OnClarificationNeeded(ctx context.Context, message string)
	OnValidationFailed(ctx context.Context, tool string, verr *ValidationError)
	OnToolStart(ctx context.Context, tool tools.ITool, input string)
	OnToolEnd(ctx context.Context, tool tools.ITool, input, output string)
	OnToolError(ctx context.Context, tool tools.ITool, input string, err error)
	OnToolNotFound(ctx context.Context, tool string)
}

// Config holds orchestrator options.
type Config struct {
	Callback    Callback
	CallTimeout time.Duration
}

// Option configures the Orchestrator.
type Option func(*Config)

// WithCallback sets the progress observer.
func WithCallback(cb Callback) Option {
	return func(c *Config) {
		c.Callback = cb
	}
}

// WithCallTimeout overrides the tool call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.CallTimeout = d
		}
	}
}

// Orchestrator runs the request pipeline: context extraction and
// personalization, tool selection, parameter inference, dispatch.
// It is safe for concurrent use; all per-request state is local.
type Orchestrator struct {
	registry  *schema.Registry
	extractor *extract.Extractor
	engine    *Engine

	toolsByName map[string]tools.ITool
	toolNames   []string

	cfg *Config
}

func New(registry *schema.Registry, extractor *extract.Extractor, options ...Option) *Orchestrator {
	cfg := &Config{
		CallTimeout: DefaultCallTimeout,
	}
	for _, opt := range options {
		opt(cfg)
	}
	return &Orchestrator{
		registry:    registry,
		extractor:   extractor,
		engine:      NewEngine(registry),
		toolsByName: make(map[string]tools.ITool),
		cfg:         cfg,
	}
}

// WithTools adds tool backends; existing tools are not replaced.
func (o *Orchestrator) WithTools(list ...tools.ITool) *Orchestrator {
	for _, tool := range list {
		name := tool.Name()
		// use lowercase for the key
		nameLowerCase := strings.ToLower(name)
		if o.toolsByName[nameLowerCase] == nil {
			o.toolsByName[nameLowerCase] = tool
			o.toolNames = append(o.toolNames, name)
		}
	}
	return o
}

// Tools returns registered tool names.
func (o *Orchestrator) Tools() []string {
	return o.toolNames
}

// Backends returns the registered tool backends in registration order.
func (o *Orchestrator) Backends() []tools.ITool {
	list := make([]tools.ITool, 0, len(o.toolNames))
	for _, name := range o.toolNames {
		list = append(list, o.toolsByName[strings.ToLower(name)])
	}
	return list
}

// Registry returns the shared schema registry.
func (o *Orchestrator) Registry() *schema.Registry {
	return o.registry
}

// Run executes the full pipeline for one conversation request and always
// returns a well-formed envelope.
func (o *Orchestrator) Run(ctx context.Context, req *chatmodel.ConversationRequest) *Envelope {
	started := time.Now()
	defer metricskey.PerfOrchestrateRun.MeasureSince(started)

	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		ctx = chatmodel.WithChatContext(ctx, chatmodel.NewChatContext("", &req.Student))
	}

	message := llmutils.Sanitize(req.CurrentMessage, MaxMessageLength)

	// Context extraction and personalization are independent; both are
	// pure and cheap, so they run sequentially.
	ec := o.extractor.Extract(req.ChatHistory, message)
	pp := personalize.Resolve(&req.Student)

	tool, err := SelectTool(ec, message)
	if err != nil {
		metricskey.StatsClarificationsRequested.IncrCounter(1)
		if o.cfg.Callback != nil {
			o.cfg.Callback.OnClarificationNeeded(ctx, message)
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "clarification_needed",
			"user", req.Student.UserID,
		)
		return newClarificationEnvelope(ClarificationPrompt)
	}
	if o.cfg.Callback != nil {
		o.cfg.Callback.OnToolSelected(ctx, tool, ec)
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_selected",
		"tool", tool,
		"topic", ec.Topic,
		"confidence", ec.Confidence,
	)

	params, err := o.engine.Infer(&Input{
		Tool:     tool,
		Student:  &req.Student,
		History:  req.ChatHistory,
		Message:  message,
		Context:  ec,
		Personal: pp,
	})
	if err != nil {
		return o.inferenceErrorEnvelope(ctx, tool, err)
	}

	return o.dispatch(ctx, params)
}

// DirectCall bypasses tool selection and topic guessing but still runs full
// parameter inference and validation on the supplied parameters.
func (o *Orchestrator) DirectCall(ctx context.Context, req *chatmodel.ToolRequest) *Envelope {
	raw := llmutils.CleanJSON(req.Parameters)

	// When the caller embeds a student profile, personalization still
	// applies to the parameters it did not supply.
	var student *chatmodel.StudentProfile
	if r := gjson.GetBytes(raw, "user_info"); r.IsObject() {
		var sp chatmodel.StudentProfile
		if err := json.Unmarshal([]byte(r.Raw), &sp); err == nil {
			student = &sp
		}
	}

	chatCtx := chatmodel.GetChatContext(ctx)
	if chatCtx == nil {
		ctx = chatmodel.WithChatContext(ctx, chatmodel.NewChatContext("", student))
	}

	// An explicit topic still resolves the subject through the lexicon,
	// so callers do not have to spell out both.
	ec := extract.Context{Confidence: extract.ConfidenceLow}
	for _, key := range []string{"topic", "concept_to_explain"} {
		if r := gjson.GetBytes(raw, key); r.Type == gjson.String {
			if subject := o.extractor.SubjectOf(r.String()); subject != "" {
				ec.Subject = subject
				break
			}
		}
	}

	params, err := o.engine.Infer(&Input{
		Tool:     req.ToolName,
		Student:  student,
		Context:  ec,
		Personal: personalize.Resolve(student),
		Explicit: raw,
	})
	if err != nil {
		return o.inferenceErrorEnvelope(ctx, req.ToolName, err)
	}

	return o.dispatch(ctx, params)
}

func (o *Orchestrator) inferenceErrorEnvelope(ctx context.Context, tool string, err error) *Envelope {
	var verr *ValidationError
	switch {
	case errors.Is(err, schema.ErrNotFound):
		metricskey.StatsToolCallsNotFound.IncrCounter(1, tool)
		if o.cfg.Callback != nil {
			o.cfg.Callback.OnToolNotFound(ctx, tool)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "schema_not_found",
			"tool", tool,
		)
		return newErrorEnvelope(tool, CodeSchemaNotFound, err.Error(), nil)
	case errors.As(err, &verr):
		metricskey.StatsValidationFailed.IncrCounter(1, tool)
		if o.cfg.Callback != nil {
			o.cfg.Callback.OnValidationFailed(ctx, tool, verr)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "validation_failed",
			"tool", tool,
			"err", err.Error(),
		)
		return newErrorEnvelope(tool, CodeValidationError, verr.Error(), verr.Fields)
	default:
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "inference_failed",
			"tool", tool,
			"err", err.Error(),
		)
		return newErrorEnvelope(tool, CodeValidationError, err.Error(), nil)
	}
}
