package model

import "time"

// PageRequest is the per-request state that flows through the trap pipeline.
//
// Each incoming HTTP request gets its own PageRequest. Pipeline steps fill in
// fields in order: resolution sets Token and Depth, folding sets
// EffectiveDepth, expansion sets Children, and so on until Body holds the
// rendered response.
//
// Design decision: Steps share one mutable struct rather than passing values
// through return types because the step set is fixed and ordered; the struct
// doubles as a record of everything that happened to the request, which the
// tracking and hit-log steps consume as-is.
type PageRequest struct {
	// RawPath is the request path exactly as received, before resolution.
	RawPath string `json:"raw_path"`

	// Token is the resolved page token.
	Token Token `json:"token"`

	// Depth is the raw traversal depth recovered from the URL. Unbounded.
	Depth int `json:"depth"`

	// EffectiveDepth is Depth after cycle-folding. Bounded; all generation
	// uses this value, never Depth.
	EffectiveDepth int `json:"effective_depth"`

	// Fresh reports whether the path failed resolution and was treated as
	// a new root derived from the raw path string.
	Fresh bool `json:"fresh"`

	// Children are the page's child tokens, in stable order.
	Children []Token `json:"children"`

	// Coordinate is the display coordinate for the page.
	Coordinate Coordinate `json:"coordinate"`

	// Body is the rendered response body.
	Body []byte `json:"-"`

	// Delay is the artificial delay applied before responding.
	Delay time.Duration `json:"delay"`

	// ClientKey identifies the requesting client (address plus a short
	// user-agent digest). Empty when tracking is disabled.
	ClientKey string `json:"client_key,omitempty"`

	// ClientAddr is the remote address without the user-agent component.
	ClientAddr string `json:"client_addr,omitempty"`

	// UserAgent is the raw User-Agent header of the request.
	UserAgent string `json:"user_agent,omitempty"`

	// ReceivedAt is when the request entered the pipeline.
	ReceivedAt time.Time `json:"received_at"`
}
