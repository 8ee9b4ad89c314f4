// Package pathcodec implements the URL-style encoding of arbitrary Unicode
// path segments into filesystem-safe names, and its inverse. It is a leaf
// package with zero external dependencies beyond stdlib and
// golang.org/x/text for Unicode normalization.
package pathcodec

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrDecodeFailed is returned by Decode when a segment contains a malformed
// percent-escape (a '%' not followed by two hex digits). Per §4.1's
// "Failure mode", callers skip and log the offending path; this package
// never panics or logs itself.
var ErrDecodeFailed = errors.New("pathcodec: invalid percent-escape in segment")

const hexDigits = "0123456789ABCDEF"

// isUnreserved reports whether b is a byte that Encode emits literally:
// ASCII alphanumeric or one of -_.~.
func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.' || b == '~':
		return true
	default:
		return false
	}
}

// EncodeSegment encodes a single Unicode path segment byte-by-byte as
// UTF-8. Bytes outside [A-Za-z0-9-_.~] are escaped as %XX (uppercase hex).
// A leading '.' in the result is rewritten to %2E to avoid colliding with
// the filesystem's hidden-file convention.
func EncodeSegment(segment string) string {
	var b strings.Builder

	b.Grow(len(segment))

	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}

		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}

	encoded := b.String()
	if strings.HasPrefix(encoded, ".") {
		encoded = "%2E" + encoded[1:]
	}

	return encoded
}

// DecodeSegment inverts EncodeSegment, then NFC-normalizes the result so
// two devices that produce the same logical name with different Unicode
// compositions converge on one Path (grounded in the teacher's own
// nfcNormalize step for locally observed names) — every decode site,
// including listener-facing ones (logio.ListFilesRecursiveRelative,
// watch's dispatcher), goes through here, so normalization is never
// skippable by construction. A '%' not followed by two valid hex digits is
// a decode failure (ErrDecodeFailed); the caller is expected to skip the
// whole path and log, per §4.1.
func DecodeSegment(encoded string) (string, error) {
	var b strings.Builder

	b.Grow(len(encoded))

	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}

		if i+2 >= len(encoded) {
			return "", fmt.Errorf("%w: %q", ErrDecodeFailed, encoded)
		}

		hi, ok1 := hexVal(encoded[i+1])
		lo, ok2 := hexVal(encoded[i+2])

		if !ok1 || !ok2 {
			return "", fmt.Errorf("%w: %q", ErrDecodeFailed, encoded)
		}

		b.WriteByte(hi<<4 | lo)
		i += 2
	}

	return norm.NFC.String(b.String()), nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// EncodePath encodes every segment of path and joins the result with '/'.
func EncodePath(path []string) string {
	encoded := make([]string, len(path))
	for i, seg := range path {
		encoded[i] = EncodeSegment(seg)
	}

	return strings.Join(encoded, "/")
}

// DecodePath splits encodedPath on '/' and decodes each segment via
// DecodeSegment (which NFC-normalizes as it decodes). Returns
// ErrDecodeFailed if any segment fails to decode; the caller should skip
// the whole path per §4.1/§4.3 ("Undecodable names are skipped with a
// warning").
func DecodePath(encodedPath string) ([]string, error) {
	if encodedPath == "" {
		return nil, nil
	}

	parts := strings.Split(encodedPath, "/")
	out := make([]string, len(parts))

	for i, p := range parts {
		decoded, err := DecodeSegment(p)
		if err != nil {
			return nil, err
		}

		out[i] = decoded
	}

	return out, nil
}
