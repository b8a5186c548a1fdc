// Package log provides content-safe logging for the redactor, built on top of
// the standard slog package.
//
// A redactor sees exactly the text it is supposed to hide. Debug output that
// echoes a matched name, a sentence selected by a concept, or the body of a
// sidecar response would undo the redaction in whatever system collects the
// logs. The SecureHandler masks such values before they reach the underlying
// handler:
//   - attributes whose key names document content (text, match, sentence, ...)
//   - string values that look like email addresses or phone numbers
//   - credentials for NER sidecars (authorization headers, tokens)
//
// Paths, offsets, counts and detector names pass through unchanged.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Debug("detection accepted",
//	    "detector", "pattern",
//	    "match", "John Doe", // logged as ***REDACTED***
//	    "start", 8,
//	)
//	slog.SetDefault(logger)
package log
