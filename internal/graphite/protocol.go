package graphite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	ogórek "github.com/kisielk/og-rek"

	"github.com/vshulcz/Carbonaut/internal/domain"
	"github.com/vshulcz/Carbonaut/internal/misc"
)

// Encoder renders a batch of samples into exactly one wire message.
// Implementations are stateless and safe for concurrent use; the two
// variants are selected once at session construction.
type Encoder interface {
	// Protocol reports which wire encoding this encoder implements.
	Protocol() domain.Protocol
	// DefaultPort is the conventional Carbon listener port for the encoding.
	DefaultPort() int
	// Encode produces the wire bytes for the batch, preserving input order.
	Encode(batch []domain.Sample) ([]byte, error)
}

// NewEncoder resolves a protocol name to its encoder.
func NewEncoder(p domain.Protocol) (Encoder, error) {
	switch p {
	case domain.Plaintext:
		return PlaintextEncoder{}, nil
	case domain.Pickle, "":
		return PickleEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidProtocol, p)
	}
}

// PlaintextEncoder emits `<metric> <value> <timestamp>\n` per sample,
// concatenated in batch order, as ASCII bytes. Message boundaries on the
// wire are the newlines, there is no batch delimiter.
type PlaintextEncoder struct{}

func (PlaintextEncoder) Protocol() domain.Protocol { return domain.Plaintext }

func (PlaintextEncoder) DefaultPort() int { return domain.DefaultPlaintextPort }

func (PlaintextEncoder) Encode(batch []domain.Sample) ([]byte, error) {
	buf := make([]byte, 0, 48*len(batch))
	for _, s := range batch {
		line, err := appendLine(buf, s)
		if err != nil {
			return nil, err
		}
		buf = line
	}
	return buf, nil
}

// appendLine renders one plaintext record. Integral values render without a
// decimal point; fractional values keep their shortest decimal form.
func appendLine(dst []byte, s domain.Sample) ([]byte, error) {
	for i := 0; i < len(s.Metric); i++ {
		if c := s.Metric[i]; c <= ' ' || c > '~' {
			return nil, fmt.Errorf("%w: metric %q contains byte %#x outside printable ascii", domain.ErrEncoding, s.Metric, c)
		}
	}
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return nil, fmt.Errorf("%w: value %v has no plaintext form", domain.ErrEncoding, s.Value)
	}
	dst = append(dst, s.Metric...)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, s.Value, 'f', -1, 64)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, s.Timestamp, 10)
	return append(dst, '\n'), nil
}

// PickleEncoder emits the batch as a pickle (protocol 2) list of
// (metric, (timestamp, value)) tuples, prefixed with a 4-byte big-endian
// unsigned length of the serialized payload. The receiver reads the header
// first and then exactly that many payload bytes.
type PickleEncoder struct{}

func (PickleEncoder) Protocol() domain.Protocol { return domain.Pickle }

func (PickleEncoder) DefaultPort() int { return domain.DefaultPicklePort }

var payloadPool = misc.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) })

func (PickleEncoder) Encode(batch []domain.Sample) ([]byte, error) {
	items := make([]any, len(batch))
	for i, s := range batch {
		items[i] = ogórek.Tuple{s.Metric, ogórek.Tuple{s.Timestamp, s.Value}}
	}

	buf := payloadPool.Get()
	defer payloadPool.Put(buf)

	enc := ogórek.NewEncoderWithConfig(buf, &ogórek.EncoderConfig{Protocol: 2})
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("%w: pickle: %v", domain.ErrEncoding, err)
	}

	out := make([]byte, 4+buf.Len())
	binary.BigEndian.PutUint32(out[:4], uint32(buf.Len())) // #nosec G115 -- payload length fits 32 bits for any sane batch
	copy(out[4:], buf.Bytes())
	return out, nil
}
