// Package model defines the core data structures shared by the redactor.
//
// This package contains the following main types:
//   - Category and CategorySet: why a region is redacted, and which reasons are active
//   - Span and Detection: character ranges, with and without their category
//   - Document: an immutable source text with a byte-to-character offset index
//   - Counters: per-category detection tallies
//   - DocumentResult and Run: per-document and per-batch processing records
//
// Models live in their own package because detectors, the redaction engine,
// the pipeline, reports and the audit database all exchange them.
package model
