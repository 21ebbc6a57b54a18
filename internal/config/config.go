package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen to mirror the behavior of a plausible small research site
// while keeping every bound finite.
const (
	// DefaultAddr is the listen address for the trap HTTP server.
	DefaultAddr = ":8080"

	// DefaultBranching is the number of child links per page. Eight links
	// is enough to make breadth-first crawlers fan out explosively while
	// keeping pages small.
	DefaultBranching = 8

	// DefaultMaxDepth is the depth threshold beyond which traversal folds
	// into a cycle. Unique content exists for depths 0..100; deeper
	// requests repeat.
	DefaultMaxDepth = 100

	// DefaultCycleLength is the number of distinct effective depths the
	// fold repeats over once past the threshold.
	DefaultCycleLength = 8

	// DefaultDelayMin is the minimum artificial response delay.
	DefaultDelayMin = 100 * time.Millisecond

	// DefaultDelayMax is the maximum artificial response delay. Two
	// seconds is long enough to slow an aggressive crawler and short
	// enough that connection pools don't pile up.
	DefaultDelayMax = 2 * time.Second

	// DefaultDelayAfterDepth is the effective depth beyond which delays
	// apply. Shallow pages respond promptly so the site front looks
	// healthy to a casual visitor.
	DefaultDelayAfterDepth = 3

	// DefaultTrackingCapacity is the maximum number of clients the
	// in-memory tracker remembers. Memory use is O(capacity), independent
	// of request volume.
	DefaultTrackingCapacity = 1024

	// DefaultRecentTokens is the per-client cap on remembered recent
	// tokens.
	DefaultRecentTokens = 16

	// DefaultSitemapPageSize is the number of URL entries per sitemap
	// page.
	DefaultSitemapPageSize = 50

	// AppName is the application name used for XDG directory paths.
	AppName = "tsukuyomi"
)

// Config holds all configuration options for the trap.
// This struct is populated from defaults, the optional config file, and CLI
// flags, then passed through the application via dependency injection rather
// than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., TrapConfig, TrackingConfig) for simplicity. The number of options is
// manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Addr is the listen address in "host:port" format.
	Addr string

	// Branching is the number of child links generated per page (N).
	// Must be positive.
	Branching int

	// MaxDepth is the depth threshold (M) beyond which traversal folds.
	// Must be non-negative. Zero folds from the very first level.
	MaxDepth int

	// CycleLength is the cycle length (C) of the fold. Must be at least
	// one; one degenerates to a self-loop.
	CycleLength int

	// Salt is the secret mixed into every token derivation. If empty at
	// startup an ephemeral salt is generated, which means the graph
	// changes across restarts; set it explicitly for a stable trap.
	Salt string

	// DelayMin and DelayMax bound the artificial response delay.
	// DelayMin must not exceed DelayMax.
	DelayMin time.Duration
	DelayMax time.Duration

	// DelayAfterDepth is the effective depth beyond which delays apply.
	DelayAfterDepth int

	// RichContent selects the richer content variant: generated research
	// narrative and simulated computation statistics in place of the
	// minimal page.
	RichContent bool

	// TrackingEnabled turns on the in-memory visit tracker and the
	// /stats endpoint.
	TrackingEnabled bool

	// TrackingCapacity is the maximum number of tracked clients. Must be
	// positive. Least-recently-active clients are evicted past it.
	TrackingCapacity int

	// RecentTokens caps the per-client recent-token history.
	RecentTokens int

	// SitemapPageSize is the number of URL entries per sitemap page.
	SitemapPageSize int

	// DBDir is the directory for the SQLite hit log. Empty disables
	// persistence; requests are then only visible through the tracker.
	DBDir string

	// LogFile is the path of the request log file. Empty logs to stderr
	// only.
	LogFile string

	// Verbose enables debug-level logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .tsukuyomi in the current directory and then in
	// the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on zero
// values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Addr:             DefaultAddr,
		Branching:        DefaultBranching,
		MaxDepth:         DefaultMaxDepth,
		CycleLength:      DefaultCycleLength,
		DelayMin:         DefaultDelayMin,
		DelayMax:         DefaultDelayMax,
		DelayAfterDepth:  DefaultDelayAfterDepth,
		TrackingEnabled:  true,
		TrackingCapacity: DefaultTrackingCapacity,
		RecentTokens:     DefaultRecentTokens,
		SitemapPageSize:  DefaultSitemapPageSize,
	}
}

// XDGDataDir returns the XDG data directory for Tsukuyomi.
// On Linux: ~/.local/share/tsukuyomi
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks for configuration values that cannot be clamped into
// something sensible. It returns a specific error describing what is invalid.
//
// Most inconsistencies are handled by Normalize instead; Validate only
// rejects what has no safe interpretation.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrNoListenAddr
	}
	return nil
}

// Normalize clamps inconsistent values to safe defaults and returns one
// warning string per correction for the caller to log.
//
// Design decision: Clamping instead of failing keeps a misconfigured trap
// serving; every correction is surfaced as a startup warning so the operator
// still finds out.
func (c *Config) Normalize() []string {
	var warnings []string

	if c.Branching < 1 {
		warnings = append(warnings, fmt.Sprintf("branching factor %d is below 1, using %d", c.Branching, DefaultBranching))
		c.Branching = DefaultBranching
	}
	if c.MaxDepth < 0 {
		warnings = append(warnings, fmt.Sprintf("max depth %d is negative, using 0", c.MaxDepth))
		c.MaxDepth = 0
	}
	if c.CycleLength < 1 {
		warnings = append(warnings, fmt.Sprintf("cycle length %d is below 1, using 1", c.CycleLength))
		c.CycleLength = 1
	}
	if c.DelayMin < 0 {
		warnings = append(warnings, fmt.Sprintf("minimum delay %v is negative, using 0", c.DelayMin))
		c.DelayMin = 0
	}
	if c.DelayMax < c.DelayMin {
		warnings = append(warnings, fmt.Sprintf("maximum delay %v is below minimum %v, using the minimum", c.DelayMax, c.DelayMin))
		c.DelayMax = c.DelayMin
	}
	if c.DelayAfterDepth < 0 {
		warnings = append(warnings, fmt.Sprintf("delay activation depth %d is negative, using 0", c.DelayAfterDepth))
		c.DelayAfterDepth = 0
	}
	if c.TrackingCapacity < 1 {
		warnings = append(warnings, fmt.Sprintf("tracking capacity %d is below 1, using %d", c.TrackingCapacity, DefaultTrackingCapacity))
		c.TrackingCapacity = DefaultTrackingCapacity
	}
	if c.RecentTokens < 1 {
		warnings = append(warnings, fmt.Sprintf("recent token cap %d is below 1, using %d", c.RecentTokens, DefaultRecentTokens))
		c.RecentTokens = DefaultRecentTokens
	}
	if c.SitemapPageSize < 1 {
		warnings = append(warnings, fmt.Sprintf("sitemap page size %d is below 1, using %d", c.SitemapPageSize, DefaultSitemapPageSize))
		c.SitemapPageSize = DefaultSitemapPageSize
	}

	return warnings
}
