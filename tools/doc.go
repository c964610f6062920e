// Package tools defines the Tool interface for educational tool backends.
// Every tool accepts a JSON payload validated against its schema and returns
// a JSON payload; the orchestrator never depends on a tool's internals.
package tools
