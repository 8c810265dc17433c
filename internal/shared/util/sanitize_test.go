package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "bill.pdf", want: "bill.pdf"},
		{name: "separators", in: "a/b\\c.png", want: "a_b_c.png"},
		{name: "control chars", in: " bill\x00\n.pdf ", want: "bill.pdf"},
		{name: "traversal", in: "../etc/passwd", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameKeepsExtensionWhenTruncating(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("x", 300) + ".pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxFileNameBytes {
		t.Fatalf("expected %d bytes, got %d", maxFileNameBytes, len(got))
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("expected .pdf suffix, got %q", got)
	}
}
