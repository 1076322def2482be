// Package orchestrator implements the pipeline orchestrator (C8): it
// sequences C1-C7 (and the optional LLM collaborators from internal/llm)
// into one request/response cycle, enforcing per-stage timeouts and
// fanning out the stages that tolerate concurrency.
package orchestrator

// Stage is one state in the pipeline's flat progression. Mirrors the
// reference codebase's flat string-constant stage enum rather than a
// typed state-machine library; the orchestrator only ever needs to report
// "how far did we get" to the caller, not validate transitions at compile
// time.
type Stage string

const (
	StageReceived     Stage = "RECEIVED"
	StageFiltered     Stage = "FILTERED"
	StageGeocoded     Stage = "GEOCODED"
	StageDiscovered   Stage = "DISCOVERED"
	StageResolved     Stage = "RESOLVED"
	StageRanked       Stage = "RANKED"
	StageContextBuilt Stage = "CONTEXT_BUILT"
	StageAnswered     Stage = "ANSWERED"
	StageDegraded     Stage = "DEGRADED"
	StageRejected     Stage = "REJECTED"
)
