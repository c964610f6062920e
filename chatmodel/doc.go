// Package chatmodel defines the wire-level conversation types exchanged with
// the tutoring frontend: student profiles, conversation turns, orchestration
// and direct tool-call requests, plus the request-scoped chat context.
package chatmodel
