// Package llmutils provides helpers for tolerant handling of JSON payloads
// produced by conversational models, plus small serialization conveniences.
package llmutils
