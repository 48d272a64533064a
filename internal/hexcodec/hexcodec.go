// Package hexcodec converts between byte slices and lowercase hex text.
package hexcodec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCharacter is returned when the text contains a byte outside [0-9A-Fa-f].
	ErrInvalidCharacter = errors.New("invalid hex character")

	// ErrOddLength is returned when the text leaves a dangling nibble.
	ErrOddLength = errors.New("odd length hex string")
)

const hexDigits = "0123456789abcdef"

// Encode returns the lowercase hex encoding of b, high nibble first.
func Encode(b []byte) string {
	return string(Append(make([]byte, 0, len(b)*2), b))
}

// Append appends the lowercase hex encoding of b to dst and returns the extended slice.
func Append(dst, b []byte) []byte {
	for _, c := range b {
		dst = append(dst, hexDigits[c>>4], hexDigits[c&0x0f])
	}
	return dst
}

// Decode parses hex text in either case.
// The whole input is validated before anything is returned, so a failed
// decode never yields a partial result.
func Decode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if _, ok := nibble(s[i]); !ok {
			return nil, fmt.Errorf("%w %q at offset %d", ErrInvalidCharacter, s[i], i)
		}
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %d characters", ErrOddLength, len(s))
	}

	out := make([]byte, DecodedLen(len(s)))
	for i := range out {
		hi, _ := nibble(s[2*i])
		lo, _ := nibble(s[2*i+1])
		out[i] = hi<<4 | lo
	}
	return out, nil
}

// DecodedLen returns the number of bytes n hex characters decode to.
func DecodedLen(n int) int { return n / 2 }

func nibble(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
