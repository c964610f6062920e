package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/edugentic/extract"
	"github.com/effective-security/edugentic/orchestrator"
	"github.com/effective-security/edugentic/tools"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ orchestrator.Callback = (*Noop)(nil)
	_ orchestrator.Callback = (*Printer)(nil)
	_ orchestrator.Callback = (*PackageLogger)(nil)
	_ orchestrator.Callback = (*Fanout)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []orchestrator.Callback
}

func NewFanout(callbacks ...orchestrator.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback orchestrator.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnToolSelected(ctx context.Context, tool string, ec extract.Context) {
	for _, callback := range l.callbacks {
		callback.OnToolSelected(ctx, tool, ec)
	}
}

func (l *Fanout) OnClarificationNeeded(ctx context.Context, message string) {
	for _, callback := range l.callbacks {
		callback.OnClarificationNeeded(ctx, message)
	}
}

func (l *Fanout) OnValidationFailed(ctx context.Context, tool string, verr *orchestrator.ValidationError) {
	for _, callback := range l.callbacks {
		callback.OnValidationFailed(ctx, tool, verr)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, input, err)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, tool string) {
	for _, callback := range l.callbacks {
		callback.OnToolNotFound(ctx, tool)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnToolSelected(ctx context.Context, tool string, ec extract.Context) {}
func (l *Noop) OnClarificationNeeded(ctx context.Context, message string)           {}
func (l *Noop) OnValidationFailed(ctx context.Context, tool string, verr *orchestrator.ValidationError) {
}
func (l *Noop) OnToolStart(ctx context.Context, tool tools.ITool, input string)          {}
func (l *Noop) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string)    {}
func (l *Noop) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
}
func (l *Noop) OnToolNotFound(ctx context.Context, tool string) {}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnToolSelected(ctx context.Context, tool string, ec extract.Context) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool selected: %s (topic=%q, confidence=%s)\n", tool, ec.Topic, ec.Confidence)
}

func (l *Printer) OnClarificationNeeded(ctx context.Context, message string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Clarification needed for message: %q\n", message)
}

func (l *Printer) OnValidationFailed(ctx context.Context, tool string, verr *orchestrator.ValidationError) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Validation failed: %s\n", verr.Error())
}

func (l *Printer) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Tool started: %s, input: %s\n", tool.Name(), input)
	} else {
		fmt.Fprintf(l.Out, "Tool started: %s\n", tool.Name())
	}
}

func (l *Printer) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Tool finished: %s, output: %s\n", tool.Name(), output)
	} else {
		fmt.Fprintf(l.Out, "Tool finished: %s\n", tool.Name())
	}
}

func (l *Printer) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool failed: %s, err: %s\n", tool.Name(), err.Error())
}

func (l *Printer) OnToolNotFound(ctx context.Context, tool string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool not found: %s\n", tool)
}

// PackageLogger is a callback handler that logs with xlog.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnToolSelected(ctx context.Context, tool string, ec extract.Context) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_selected",
		"tool", tool,
		"topic", ec.Topic,
		"subject", ec.Subject,
		"confidence", ec.Confidence,
	)
}

func (l *PackageLogger) OnClarificationNeeded(ctx context.Context, message string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "clarification_needed",
	)
}

func (l *PackageLogger) OnValidationFailed(ctx context.Context, tool string, verr *orchestrator.ValidationError) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"event", "validation_failed",
		"tool", tool,
		"err", verr.Error(),
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool.Name(),
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, input, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool.Name(),
		"output_bytes", len(output),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, tool string) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"event", "tool_not_found",
		"tool", tool,
	)
}
