package model

import "time"

// VisitRecord holds the visit history of a single tracked client.
//
// Records are owned exclusively by the tracking store, which creates them on
// first contact, updates them on every request, and evicts the least recently
// active ones under memory pressure. Snapshots hand out copies, never the
// live structures.
type VisitRecord struct {
	// ClientKey identifies the client: remote address plus a short digest
	// of the user agent.
	ClientKey string `json:"client_key"`

	// UserAgent is the client's User-Agent header as last observed.
	UserAgent string `json:"user_agent"`

	// VisitCount is the number of requests observed from this client.
	VisitCount int `json:"visit_count"`

	// MaxDepth is the deepest raw traversal depth observed.
	MaxDepth int `json:"max_depth"`

	// FirstSeen is when the client was first observed.
	FirstSeen time.Time `json:"first_seen"`

	// LastSeen is when the client was last observed.
	LastSeen time.Time `json:"last_seen"`

	// RecentTokens is a capped history of the most recently requested
	// tokens, oldest first. Older entries are dropped past the cap.
	RecentTokens []Token `json:"recent_tokens,omitempty"`
}
