// Package orchestrator maps conversational signal onto validated,
// strongly-typed tool call parameters: it selects the tool, infers and
// validates its parameters from extracted context and personalization,
// and dispatches a single call returning a uniform result envelope.
package orchestrator
