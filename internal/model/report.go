package model

import "time"

// TrapReport is the operator-facing summary of trap activity.
// It is built either from the persistent hit log (the report command) or
// from a live tracker snapshot (the stats endpoint).
type TrapReport struct {
	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// TotalHits is the total number of trap requests recorded.
	TotalHits int `json:"total_hits"`

	// UniqueClients is the number of distinct client keys observed.
	UniqueClients int `json:"unique_clients"`

	// MaxDepth is the deepest raw traversal depth observed across all
	// clients. This is the clearest signal of a trapped crawler: humans
	// rarely go past a handful of levels.
	MaxDepth int `json:"max_depth"`

	// FirstHit and LastHit bound the recorded activity window.
	FirstHit time.Time `json:"first_hit"`
	LastHit  time.Time `json:"last_hit"`

	// Clients lists per-client activity, most active first.
	Clients []ClientActivity `json:"clients,omitempty"`
}

// ClientActivity summarizes one client's interaction with the trap.
type ClientActivity struct {
	// ClientKey identifies the client.
	ClientKey string `json:"client_key"`

	// UserAgent is the client's user agent as last observed.
	UserAgent string `json:"user_agent"`

	// Hits is the number of requests from this client.
	Hits int `json:"hits"`

	// MaxDepth is the deepest raw depth this client reached.
	MaxDepth int `json:"max_depth"`

	// FirstSeen and LastSeen bound this client's activity window.
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// HasActivity reports whether any hits were recorded.
func (r *TrapReport) HasActivity() bool {
	return r.TotalHits > 0
}
