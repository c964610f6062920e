// Package personalize normalizes free-text student profile summaries into
// the fixed enumerations consumed by parameter inference. Resolution is
// total; unmatched text falls back to unknown or midpoint values.
package personalize
