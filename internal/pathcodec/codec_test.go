package pathcodec

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSegment_Boundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading dot escaped", ".hidden", "%2Ehidden"},
		{"space and slash escaped", "a b/c", "a%20b%2Fc"},
		{"unreserved characters pass through", "abc-_.~XYZ09", "abc-_.~XYZ09"},
		{"empty segment", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EncodeSegment(tt.in))
		})
	}
}

func TestEncodeSegment_NeverProducesLeadingDot(t *testing.T) {
	t.Parallel()

	for _, in := range []string{".", "..", ".git", ".a.b"} {
		got := EncodeSegment(in)
		assert.False(t, strings.HasPrefix(got, "."), "EncodeSegment(%q) = %q starts with '.'", in, got)
	}
}

func TestDecodeSegment_Invalid(t *testing.T) {
	t.Parallel()

	tests := []string{"%", "%2", "%zz", "abc%2"}
	for _, in := range tests {
		_, err := DecodeSegment(in)
		require.ErrorIs(t, err, ErrDecodeFailed)
	}
}

func TestRoundTrip_ArbitraryUTF8(t *testing.T) {
	t.Parallel()

	samples := []string{
		"simple",
		".hidden",
		"a b/c",
		"日本語",
		"emoji 🎉 time",
		"mixed.punct!@#$%^&*()",
		"",
	}

	for _, s := range samples {
		t.Run(s, func(t *testing.T) {
			t.Parallel()

			require.True(t, utf8.ValidString(s))

			encoded := EncodeSegment(s)
			decoded, err := DecodeSegment(encoded)
			require.NoError(t, err)
			assert.Equal(t, s, decoded)
		})
	}
}

func TestEncodeDecodePath(t *testing.T) {
	t.Parallel()

	path := []string{"info", "a b", ".weird"}
	encoded := EncodePath(path)
	assert.Equal(t, "info/a%20b/%2Eweird", encoded)

	decoded, err := DecodePath(encoded)
	require.NoError(t, err)
	assert.Equal(t, path, decoded)
}

func TestDecodePath_Empty(t *testing.T) {
	t.Parallel()

	decoded, err := DecodePath("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodePath_PropagatesSegmentFailure(t *testing.T) {
	t.Parallel()

	_, err := DecodePath("ok/%zz/also-ok")
	require.ErrorIs(t, err, ErrDecodeFailed)
}
