// Package metrics reduces an ensemble to energy diagnostics.
//
// [Compute] is the per-atom energy reduction printed during a run. The
// [EnergyDrift] and [Stability] metrics accumulate over a run, and
// [Summarize] condenses a series of reports for the run store.
package metrics
