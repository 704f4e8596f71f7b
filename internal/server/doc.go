// Package server implements the optional debug HTTP server used during
// development to scrape Prometheus metrics and inspect UI and recorder state.
package server
