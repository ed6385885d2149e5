// Package report provides arraybench.ReportSink implementations.
//
// Text renders an aligned table for terminals, JSON emits machine-readable
// output and Multi fans out to several sinks.
package report
