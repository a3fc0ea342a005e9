// Package tabular reads and writes the tab-separated files of the pipeline:
// dissimilarity matrices, partitions (indicator matrix or two-column
// assignment), summary tables, batch lists of name=path lines, and plain
// name lists.
//
// All readers accept '#' comment lines and trailing carriage returns.
// Errors carry the line number of the offending record.
package tabular
