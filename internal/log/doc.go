// Package log provides structured logging with secret redaction.
//
// The trap's security rests entirely on the secrecy of the derivation salt:
// anyone who learns it can precompute the whole graph offline and walk out of
// the trap. Every logger in the process therefore wraps its handler in a
// RedactingHandler that masks salt-bearing attributes before they reach any
// output, including the append-only request log file.
package log
