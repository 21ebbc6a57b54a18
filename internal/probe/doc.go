// Package probe implements the trap's built-in self-check spider.
//
// The prober crawls a running trap the way a real crawler would and
// verifies the properties the trap promises: stable pages across repeated
// fetches, the configured fan-out on every page, HTTP 200 on arbitrary
// paths, and ever-growing URL depths. Operators run it after deployment
// to confirm the trap is wired correctly.
package probe
