package graphite

import (
	"fmt"
	"strings"

	"github.com/vshulcz/Carbonaut/internal/domain"
)

// Sanitize turns an ordered list of raw path segments into a single
// dot-delimited metric name Carbon will accept. Characters outside the
// accepted alphabet are escaped as `_<hex>_` per byte, so a literal dot
// inside a segment becomes `_2e_` and never collides with the separator.
func Sanitize(segments []string) (string, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: no segments", domain.ErrInvalidPath)
	}
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('.')
		}
		escapeSegment(&b, seg)
	}
	return b.String(), nil
}

// SanitizePath is Sanitize for a pre-joined dotted path: each dot-separated
// piece is escaped independently and the dots are kept as level separators.
func SanitizePath(path string) (string, error) {
	return Sanitize(strings.Split(path, "."))
}

func escapeSegment(b *strings.Builder, seg string) {
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if allowed(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(b, "_%02x_", c)
	}
}

// Carbon metric names: letters, digits and a small punctuation allow-list.
func allowed(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', ':', '#', '+':
		return true
	}
	return false
}
