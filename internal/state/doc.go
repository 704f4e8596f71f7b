// Package state implements the badge UI state machine: a registry of named
// states with enter/update/exit lifecycle hooks, driven by button and rotary
// input, plus the concrete states (startup, menu, party, image display, and
// the SSTV encode/decode screens).
package state
