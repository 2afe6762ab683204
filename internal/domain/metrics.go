package domain

// Protocol enumerates the supported Carbon wire encodings.
type Protocol string

const (
	// Plaintext is the newline-delimited `<metric> <value> <timestamp>` text encoding.
	Plaintext Protocol = "plaintext"
	// Pickle is the length-prefixed Python-pickle encoding.
	Pickle Protocol = "pickle"
)

// Conventional Carbon listener ports per encoding. Callers may override both.
const (
	DefaultPlaintextPort = 2003
	DefaultPicklePort    = 2004
)

// Sample is a single metric observation bound for the server.
// A zero Timestamp means "stamp with the current time at send".
type Sample struct {
	Metric    string
	Value     float64
	Timestamp int64
}
