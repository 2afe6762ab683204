package sink

import (
	"bytes"
	"io"
	"testing"

	"github.com/vshulcz/Carbonaut/internal/domain"
	"github.com/vshulcz/Carbonaut/internal/graphite"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    domain.Sample
		wantErr bool
	}{
		{"integral", "x 5 100", domain.Sample{Metric: "x", Value: 5, Timestamp: 100}, false},
		{"fractional", "load 0.25 42", domain.Sample{Metric: "load", Value: 0.25, Timestamp: 42}, false},
		{"missing_field", "x 5", domain.Sample{}, true},
		{"extra_field", "x 5 100 9", domain.Sample{}, true},
		{"bad_value", "x five 100", domain.Sample{}, true},
		{"bad_timestamp", "x 5 later", domain.Sample{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLine(tc.line)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseLine(%q): expected error", tc.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLine(%q): %v", tc.line, err)
			}
			if got != tc.want {
				t.Fatalf("ParseLine(%q)=%+v want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestReadFrame_RoundTripsEncoder(t *testing.T) {
	batch := []domain.Sample{
		{Metric: "app.requests", Value: 12, Timestamp: 1500000000},
		{Metric: "app.latency", Value: 7.5, Timestamp: 1500000060},
	}
	msg, err := graphite.PickleEncoder{}.Encode(batch)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := ReadFrame(bytes.NewReader(msg))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if len(got) != len(batch) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(batch))
	}
	for i := range batch {
		if got[i] != batch[i] {
			t.Fatalf("sample %d: %+v want %+v", i, got[i], batch[i])
		}
	}
}

func TestReadFrame_TwoFramesOnOneStream(t *testing.T) {
	first, err := graphite.PickleEncoder{}.Encode([]domain.Sample{{Metric: "a", Value: 1, Timestamp: 10}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := graphite.PickleEncoder{}.Encode([]domain.Sample{{Metric: "b", Value: 2, Timestamp: 20}})
	if err != nil {
		t.Fatal(err)
	}

	r := bytes.NewReader(append(first, second...))
	got1, err := ReadFrame(r)
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	got2, err := ReadFrame(r)
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if got1[0].Metric != "a" || got2[0].Metric != "b" {
		t.Fatalf("frames out of order: %v %v", got1, got2)
	}
	if _, err := ReadFrame(r); err != io.EOF {
		t.Fatalf("expected EOF after last frame, got %v", err)
	}
}

func TestReadFrame_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short_header", []byte{0, 0}},
		{"truncated_payload", []byte{0, 0, 0, 10, 1, 2}},
		{"oversized_header", []byte{0xff, 0xff, 0xff, 0xff}},
		{"garbage_payload", []byte{0, 0, 0, 3, 'a', 'b', 'c'}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadFrame(bytes.NewReader(tc.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
