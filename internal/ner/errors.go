package ner

import "errors"

var (
	// ErrEmptyURL is returned when a Client is created without an endpoint.
	ErrEmptyURL = errors.New("ner: sidecar URL is empty")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("ner: invalid proxy address format: expected host:port")

	// ErrUnexpectedStatus is returned when the sidecar answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("ner: unexpected sidecar status")

	// ErrDecode is returned when the sidecar response is not valid JSON.
	ErrDecode = errors.New("ner: cannot decode sidecar response")
)
