// Package database provides the SQLite-based audit history for the redactor.
//
// Every run is stored as one row in the runs table together with one row per
// processed document. Documents record the SHA3-256 digest of their source,
// never the source text, so the history can be kept next to the censored
// outputs without re-introducing the redacted content.
//
// The database uses modernc.org/sqlite, a CGO-free driver, and lives in the
// XDG data directory by default.
package database
