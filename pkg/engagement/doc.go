// Package engagement models student-engagement datasets and derives the
// sortable rows drawn by the dashboard charts.
//
// Five datasets are supported:
//   - [Timeline]: attendance sessions of each student within one event
//   - [Performance]: correct/incorrect answers per difficulty level
//   - [Interactions]: daily access sessions over a date range, by type
//   - [Activity]: each student's state on every resource of a topic tree
//   - [Weights]: graded components and their weight in the final grade
//
// Each dataset converts to [rowlayout.Row] values through [TimelineRows],
// [PerformanceRows], [InteractionRows], [ActivityRows] or [WeightRows]. Aggregates such as total minutes are
// computed once per dataset and stored as sort keys.
//
// Attendance is classified against a delay threshold with [Classify]: a
// student present for less than the threshold is [Absent], one missing at most
// the threshold is [Full], anyone else is [Partial].
package engagement
