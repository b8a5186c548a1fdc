package database

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when CreateIfNotExists is false
	// and no database exists yet.
	ErrDatabaseNotFound = errors.New("history database not found")

	// ErrRunNotFound is returned when no run matches the requested ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned when an ID prefix matches several runs.
	ErrAmbiguousRunID = errors.New("run ID prefix matches more than one run")

	// ErrNilRun is returned by SaveRun when no run is given.
	ErrNilRun = errors.New("nil run")
)
