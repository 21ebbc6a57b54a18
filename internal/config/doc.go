// Package config defines process-wide configuration for the Tsukuyomi trap.
//
// Configuration is assembled once at startup from defaults, an optional YAML
// file, and CLI flags, then treated as immutable: the trap's determinism
// guarantee (same request, same response) only holds while the configuration
// does not change.
//
// Inconsistent values (inverted delay range, cycle length below one) are not
// fatal. Normalize clamps them to safe defaults and reports warnings for the
// logger, because a trap that refuses to start over a bad knob is worse than
// one running with a corrected knob.
package config
