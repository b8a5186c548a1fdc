package pipeline

import "errors"

var (
	// ErrReadInput is returned when a source document cannot be read.
	ErrReadInput = errors.New("cannot read input")

	// ErrWriteOutput is returned when a censored copy cannot be written.
	ErrWriteOutput = errors.New("cannot write output")

	// ErrNoDocument is returned when a step needs a document that was not loaded.
	ErrNoDocument = errors.New("document not loaded")
)
