// Package tech turns rows of the technology sheet into typed records.
//
// The sheet comes in two forms:
//
//   - Aggregated ([FormAggregated]): one row per process step, keyed by
//     "Technology name", with comma-separated "Process input" and
//     "Process output" carrier lists. Sparse rows inherit values from the
//     row above (forward fill). Rows become [Step] values.
//   - Single-row ([FormSingle]): one row per technology, keyed by
//     "ehubX Tech ID", with parallel comma-separated carrier, share and unit
//     lists per direction and a designated main carrier. Rows become
//     [Technology] values holding [CarrierFlow] records.
//
// # Tolerated inconsistencies
//
// [Parse] never fails on two kinds of inconsistency. When the parallel
// carrier, share and unit lists differ in length, the flows are truncated to
// the shortest list and a [flow.DiagLengthMismatch] diagnostic is returned.
// When the main carrier is not among the listed carriers, the first listed
// carrier is used and a [flow.DiagMainCarrierFallback] diagnostic is
// returned.
//
// A share that is not a number, or a missing required column, is an error
// with code INVALID_SHARE or MISSING_COLUMN.
package tech
