// Package metrics provides observability hooks for wiki builds. Components
// receive a Recorder by injection; the default NoopRecorder keeps the
// one-shot CLI path free of any metrics overhead, while the preview server
// swaps in the Prometheus implementation behind its /metrics endpoint.
package metrics

import "time"

// ResultLabel enumerates build result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for build metrics. Implementations
// must be safe for concurrent use; page renders run in parallel.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	ObservePageRenderDuration(d time.Duration)
	IncBuildResult(result ResultLabel)
	SetPagesDiscovered(n int)
	IncRebuilds()
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)      {}
func (NoopRecorder) ObservePageRenderDuration(time.Duration) {}
func (NoopRecorder) IncBuildResult(ResultLabel)              {}
func (NoopRecorder) SetPagesDiscovered(int)                  {}
func (NoopRecorder) IncRebuilds()                            {}
