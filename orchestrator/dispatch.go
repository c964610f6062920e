package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/effective-security/edugentic/pkg/metricskey"
	"github.com/effective-security/xlog"
)

// dispatch invokes exactly one external tool call with validated parameters
// and normalizes the outcome into an envelope. Failures are never retried
// here; retries belong to the transport collaborator.
func (o *Orchestrator) dispatch(ctx context.Context, params *ToolCallParameters) *Envelope {
	tool, ok := o.toolsByName[strings.ToLower(params.Tool)]
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, params.Tool)
		if o.cfg.Callback != nil {
			o.cfg.Callback.OnToolNotFound(ctx, params.Tool)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"tool", params.Tool,
		)
		return newErrorEnvelope(params.Tool, CodeSchemaNotFound,
			"no backend registered for tool "+params.Tool, nil)
	}

	input := string(params.Payload)
	if o.cfg.Callback != nil {
		o.cfg.Callback.OnToolStart(ctx, tool, input)
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()

	started := time.Now()
	output, err := tool.Call(ctx, input)
	metricskey.PerfToolCall.MeasureSince(started, params.Tool)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, params.Tool)
		if o.cfg.Callback != nil {
			o.cfg.Callback.OnToolError(ctx, tool, input, err)
		}
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "tool_call_failed",
			"tool", params.Tool,
			"student", params.StudentID,
			"err", err.Error(),
		)
		return newErrorEnvelope(params.Tool, CodeToolInvocationError, err.Error(), nil)
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, params.Tool)
	if o.cfg.Callback != nil {
		o.cfg.Callback.OnToolEnd(ctx, tool, input, output)
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_call_succeeded",
		"tool", params.Tool,
		"student", params.StudentID,
	)
	return newSuccessEnvelope(params.Tool, []byte(output))
}
