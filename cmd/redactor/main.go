// Package main provides the entry point for the redactor CLI.
//
// redactor masks personal information in plain-text documents. Names, dates,
// phone numbers, addresses and whole sentences about user-supplied concepts
// are replaced with block glyphs while the document keeps its exact length
// and line structure.
//
// Usage:
//
//	redactor redact --input '*.txt' --output censored --names --phones --stats stderr
//	redactor history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
