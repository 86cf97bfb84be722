package util

import (
	"strings"
	"testing"
)

func TestApproxBase64Bytes(t *testing.T) {
	testCases := []struct {
		name     string
		encoded  string
		expected int
	}{
		{"empty", "", 0},
		{"four chars", "AAAA", 3},
		{"data url prefix stripped", "data:image/png;base64,AAAA", 3},
		{"plain comma not stripped", "AAAA,AAAA", 6},
		{"megabyte scale", strings.Repeat("A", 4_000_000), 3_000_000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ApproxBase64Bytes(tc.encoded); got != tc.expected {
				t.Errorf("ApproxBase64Bytes(%q...) = %d; want %d", tc.name, got, tc.expected)
			}
		})
	}
}

func TestSanitizeImageBase64(t *testing.T) {
	small := strings.Repeat("A", 400)
	oversized := strings.Repeat("A", 4_000_000) // ~3MB decoded
	empty := ""

	if got := SanitizeImageBase64(nil, 2_000_000); got != nil {
		t.Errorf("nil image should stay nil, got %v", got)
	}
	if got := SanitizeImageBase64(&empty, 2_000_000); got != nil {
		t.Errorf("empty image should become nil, got %v", got)
	}
	if got := SanitizeImageBase64(&small, 2_000_000); got == nil || *got != small {
		t.Errorf("small image should pass through unchanged")
	}
	// 3,000,000 decoded bytes against a 2,000,000 ceiling: dropped, not an error.
	if got := SanitizeImageBase64(&oversized, 2_000_000); got != nil {
		t.Errorf("oversized image should be dropped")
	}
}
