// Package detect contains the detector adapters that find candidate
// redaction spans in a document.
//
// Every adapter implements Detector. An adapter reads the document, emits
// model.Detection values for the categories that are active, and never
// modifies the text. Counting is left to the caller: one accepted detection is
// one increment of its category.
//
// The adapters shipped here are:
//   - HeaderDetector: names in email header lines (From, To, Cc, ...)
//   - NERDetector: entities from an injected statistical Recognizer, mapped
//     to categories through a LabelMap
//   - PatternDetector: the fixed regular expression table for names, dates,
//     phone numbers and street addresses
//   - ConceptDetector: whole sentences mentioning a user supplied phrase
//
// All offsets are character offsets. Go's regexp package reports byte
// offsets, so the regex based adapters convert through model.Document.
package detect
