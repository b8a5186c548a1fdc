// Package pipeline runs the redaction of documents as a sequence of steps.
//
// One document flows through read, detect, resolve, render and write. Each
// stage is a Step that receives the model.DocumentResult filled in by the
// previous ones. The first failing step stops the document: a document whose
// detectors failed is never written.
//
// BatchProcessor fans a list of files out over a bounded number of workers
// (errgroup.SetLimit). Documents are independent; one failure never stops
// the others. Per-document counters are merged into the run tally under a
// mutex once each document completes.
package pipeline
