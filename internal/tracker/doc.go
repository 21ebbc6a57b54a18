// Package tracker maintains bounded, in-memory visit history per client.
//
// The store exists so the trap can answer "who is stuck in here, and how
// deep" without any persistence: it keeps at most a configured number of
// client records and evicts the least recently active one when full, so a
// distributed crawl cannot grow the process without bound.
package tracker
