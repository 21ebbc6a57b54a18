// Package main provides the entry point for the Tsukuyomi CLI.
//
// Tsukuyomi is a crawler trap: an HTTP server that presents a deterministic,
// practically infinite graph of interlinked pages generated from O(1) state.
// Misbehaving crawlers that ignore robots.txt wander the graph forever while
// the trap records their visits.
//
// Usage:
//
//	tsukuyomi serve
//	tsukuyomi report --format markdown
//	tsukuyomi probe --url http://127.0.0.1:8080
//
// See --help for all available options.
package main

// main is the entry point for Tsukuyomi.
func main() {
	Execute()
}
