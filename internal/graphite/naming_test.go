package graphite

import (
	"errors"
	"strings"
	"testing"

	"github.com/vshulcz/Carbonaut/internal/domain"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"plain", []string{"app", "auth", "login", "failed"}, "app.auth.login.failed"},
		{"dot_in_segment", []string{"a.b", "c"}, "a_2e_b.c"},
		{"space", []string{"disk usage", "root"}, "disk_20_usage.root"},
		{"newline", []string{"a\nb"}, "a_0a_b"},
		{"single_segment", []string{"uptime"}, "uptime"},
		{"allowed_punctuation", []string{"shard-1", "queue_depth", "host:web", "rate#5", "c++"}, "shard-1.queue_depth.host:web.rate#5.c++"},
		{"percent", []string{"cpu%"}, "cpu_25_"},
		{"unicode_multibyte", []string{"héllo"}, "h_c3__a9_llo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Sanitize(tc.segments)
			if err != nil {
				t.Fatalf("Sanitize(%q) error: %v", tc.segments, err)
			}
			if got != tc.want {
				t.Fatalf("Sanitize(%q)=%q want %q", tc.segments, got, tc.want)
			}
			// Sanitized names must never carry raw whitespace.
			if strings.ContainsAny(got, " \n\t") {
				t.Fatalf("Sanitize(%q)=%q contains raw whitespace", tc.segments, got)
			}
		})
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	segments := []string{"weird segment", "a.b", "ok"}
	first, err := Sanitize(segments)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := Sanitize(segments)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("run %d: got %q want %q", i, got, first)
		}
	}
}

func TestSanitize_Empty(t *testing.T) {
	if _, err := Sanitize(nil); !errors.Is(err, domain.ErrInvalidPath) {
		t.Fatalf("Sanitize(nil) err=%v, want ErrInvalidPath", err)
	}
	if _, err := Sanitize([]string{}); !errors.Is(err, domain.ErrInvalidPath) {
		t.Fatalf("Sanitize([]) err=%v, want ErrInvalidPath", err)
	}
}

func TestSanitizePath(t *testing.T) {
	got, err := SanitizePath("app.auth.log in")
	if err != nil {
		t.Fatal(err)
	}
	if want := "app.auth.log_20_in"; got != want {
		t.Fatalf("SanitizePath=%q want %q", got, want)
	}
}
