package sink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	ogórek "github.com/kisielk/og-rek"

	"github.com/vshulcz/Carbonaut/internal/domain"
)

// maxFrameSize guards the pickle listener against absurd length headers.
const maxFrameSize = 1 << 20

// ParseLine decodes one plaintext record (without the trailing newline).
func ParseLine(line string) (domain.Sample, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return domain.Sample{}, fmt.Errorf("malformed line %q: want 3 fields, got %d", line, len(fields))
	}
	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("malformed value in %q: %w", line, err)
	}
	ts, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("malformed timestamp in %q: %w", line, err)
	}
	return domain.Sample{Metric: fields[0], Value: value, Timestamp: ts}, nil
}

// ReadFrame pulls exactly one pickle message off the stream: a 4-byte
// big-endian payload length followed by that many payload bytes.
func ReadFrame(r io.Reader) ([]domain.Sample, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(hdr[:])
	if size > maxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit %d", size, maxFrameSize)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("short frame: %w", err)
	}

	v, err := ogórek.NewDecoder(bytes.NewReader(payload)).Decode()
	if err != nil {
		return nil, fmt.Errorf("pickle decode: %w", err)
	}
	return samplesFromPickle(v)
}

func samplesFromPickle(v any) ([]domain.Sample, error) {
	items, ok := asSlice(v)
	if !ok {
		return nil, fmt.Errorf("unexpected pickle payload %T, want list of tuples", v)
	}
	out := make([]domain.Sample, 0, len(items))
	for _, item := range items {
		tup, ok := asSlice(item)
		if !ok || len(tup) != 2 {
			return nil, fmt.Errorf("unexpected pickle record %T", item)
		}
		metric, ok := tup[0].(string)
		if !ok {
			return nil, fmt.Errorf("unexpected metric name %T", tup[0])
		}
		inner, ok := asSlice(tup[1])
		if !ok || len(inner) != 2 {
			return nil, fmt.Errorf("unexpected datapoint %T for %s", tup[1], metric)
		}
		ts, ok := asInt(inner[0])
		if !ok {
			return nil, fmt.Errorf("unexpected timestamp %T for %s", inner[0], metric)
		}
		value, ok := asFloat(inner[1])
		if !ok {
			return nil, fmt.Errorf("unexpected value %T for %s", inner[1], metric)
		}
		out = append(out, domain.Sample{Metric: metric, Value: value, Timestamp: ts})
	}
	return out, nil
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case ogórek.Tuple:
		return s, true
	case []any:
		return s, true
	}
	return nil, false
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}
