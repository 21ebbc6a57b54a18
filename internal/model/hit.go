package model

import "time"

// Hit is one persisted trap request, as stored in the hit log.
// It is the durable counterpart of PageRequest: only the fields worth
// keeping across restarts survive the conversion.
type Hit struct {
	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// ClientAddr is the client's remote address.
	ClientAddr string `json:"client_addr"`

	// ClientKey identifies the client across requests.
	ClientKey string `json:"client_key"`

	// UserAgent is the client's User-Agent header.
	UserAgent string `json:"user_agent"`

	// Path is the request path exactly as received.
	Path string `json:"path"`

	// Token is the resolved page token.
	Token Token `json:"token"`

	// Depth is the raw traversal depth.
	Depth int `json:"depth"`

	// EffectiveDepth is the folded depth used for generation.
	EffectiveDepth int `json:"effective_depth"`

	// Latency is the artificial delay applied to the response.
	Latency time.Duration `json:"latency"`
}

// HitFromRequest converts a completed pipeline request into a Hit.
func HitFromRequest(req *PageRequest) Hit {
	return Hit{
		Timestamp:      req.ReceivedAt,
		ClientAddr:     req.ClientAddr,
		ClientKey:      req.ClientKey,
		UserAgent:      req.UserAgent,
		Path:           req.RawPath,
		Token:          req.Token,
		Depth:          req.Depth,
		EffectiveDepth: req.EffectiveDepth,
		Latency:        req.Delay,
	}
}
