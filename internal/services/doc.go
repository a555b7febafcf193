// Package services defines the shared failure taxonomy for external
// integrations and pipeline preconditions, plus clients for the external
// tools in subpackages.
//
// Every reported failure is tagged with one of the sentinel errors so
// callers can distinguish bad input, violated preconditions, a tool that
// exited non-zero, and a tool that never started.
package services
