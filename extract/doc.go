// Package extract derives topic, subject and keywords from conversation text
// using a curated academic lexicon. The matching is heuristic by design and
// fully deterministic.
package extract
