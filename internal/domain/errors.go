package domain

import "errors"

var (
	// ErrInvalidPath is returned when a metric path has no segments.
	ErrInvalidPath = errors.New("invalid metric path")
	// ErrEncoding indicates a sample that cannot be represented in the selected wire form.
	ErrEncoding = errors.New("sample not encodable")
	// ErrConnection covers failures to establish the TCP connection.
	ErrConnection = errors.New("connection failed")
	// ErrUnreachableHost is the resolution sub-case of ErrConnection.
	ErrUnreachableHost = errors.New("unreachable host")
	// ErrNotConnected is returned on send before Connect or after Close.
	ErrNotConnected = errors.New("not connected")
	// ErrTransmission indicates a write failure on an established connection.
	ErrTransmission = errors.New("transmission failed")
	// ErrInvalidProtocol indicates an unsupported wire protocol name.
	ErrInvalidProtocol = errors.New("invalid protocol")
)
