// Package ner implements detect.Recognizer on top of an HTTP entity
// recognition sidecar.
//
// The sidecar protocol is a single JSON round trip:
//
//	POST <url>
//	{"text": "Jane Smith visited Berlin."}
//
//	200 OK
//	{"entities": [{"start": 0, "end": 10, "label": "PER"}]}
//
// Offsets are character offsets into the submitted text. Any transport
// failure, non-200 status or undecodable body is returned as an error; the
// caller fails the document instead of writing a partially redacted copy.
//
// Sidecars on another host can be reached through a SOCKS5 proxy
// (WithProxy), for example an SSH tunnel opened with "ssh -D".
package ner
