package util

import "strings"

// ApproxBase64Bytes estimates the decoded size of a base64 payload without
// decoding it. Data-URL prefixes ("data:image/png;base64,") are stripped
// before estimating.
func ApproxBase64Bytes(encoded string) int {
	if idx := strings.Index(encoded, ","); idx != -1 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	return len(encoded) * 3 / 4
}

// SanitizeImageBase64 returns the image payload when it fits under maxBytes,
// nil otherwise. An oversized image is dropped rather than rejected, the pin
// itself still persists.
func SanitizeImageBase64(encoded *string, maxBytes int) *string {
	if encoded == nil || *encoded == "" {
		return nil
	}
	if ApproxBase64Bytes(*encoded) > maxBytes {
		return nil
	}
	return encoded
}
