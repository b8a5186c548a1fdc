// Package redact is the span resolution and redaction engine.
//
// A document is redacted in three stages:
//
//  1. Aggregator runs every registered detector in order, validates the
//     detections and counts them per category.
//  2. Resolve merges the detected spans into a sorted, non-overlapping plan.
//     Overlapping and touching spans collapse into one region.
//  3. Render replaces every character covered by the plan with MaskGlyph,
//     leaving line breaks (\n and \r) in place so the line structure survives.
//
// Counting happens in stage 1, before merging. Two detectors that flag the
// same name produce two counts and one masked region.
package redact
