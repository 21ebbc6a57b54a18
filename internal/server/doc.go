// Package server exposes the trap over HTTP.
//
// The router is deliberately permissive: every path that is not one of the
// handful of real endpoints (robots.txt, the sitemap chain, the operator
// stats page) is handed to the trap pipeline and answered with HTTP 200 and
// a normal-looking page. There is no 404 surface for a crawler to map.
package server
