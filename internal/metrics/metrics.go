// Package metrics provides application-level counters using stdlib expvar.
// Counters are exported on the /debug/vars endpoint of the API server.
package metrics

import "expvar"

// Chat counters.
var (
	TurnsTotal          = expvar.NewInt("concierge_turns_total")
	CompletionSuccess   = expvar.NewInt("concierge_completion_success_total")
	FallbackTotal       = expvar.NewInt("concierge_fallback_total")
	ApologyTotal        = expvar.NewInt("concierge_apology_total")
	PipelineRecovered   = expvar.NewInt("concierge_pipeline_recovered_total")
	ConversationsOpened = expvar.NewInt("concierge_conversations_opened_total")
	LifecycleExpired    = expvar.NewInt("concierge_lifecycle_expired_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }

// Snapshot returns the current counter values keyed by short name.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"turns":                TurnsTotal.Value(),
		"completion_success":   CompletionSuccess.Value(),
		"fallbacks":            FallbackTotal.Value(),
		"apologies":            ApologyTotal.Value(),
		"pipeline_recovered":   PipelineRecovered.Value(),
		"conversations_opened": ConversationsOpened.Value(),
		"expired":              LifecycleExpired.Value(),
	}
}
