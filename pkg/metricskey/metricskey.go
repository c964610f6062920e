package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls to unknown tools",
		RequiredTags: []string{"tool"},
	}

	StatsClarificationsRequested = metrics.Describe{
		Type: metrics.TypeCounter,
		Name: "stats_clarifications_requested",
		Help: "stats_clarifications_requested provides total requests answered with a clarification prompt",
	}

	StatsValidationFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_validation_failed",
		Help:         "stats_validation_failed provides total parameter inference validation failures",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfOrchestrateRun = metrics.Describe{
		Type: metrics.TypeSample,
		Name: "perf_orchestrate_run",
		Help: "perf_orchestrate_run provides duration of a full orchestration run",
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfOrchestrateRun,
	&PerfToolCall,
	&StatsClarificationsRequested,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsValidationFailed,
}
