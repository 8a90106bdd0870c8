// Package verify drives engines under test through a frequency x
// pitch-shift sweep, runs every analyzer on the captured output, and
// aggregates the graded runs into a per-engine report.
//
// The sweep is strictly serial: an engine under test is assumed stateful
// and non-reentrant, so one configuration is fully completed (reset,
// configure, process, analyze) before the next begins. Engine failures are
// captured as invalid runs and never abort the batch.
package verify
