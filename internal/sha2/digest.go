package sha2

import (
	"errors"
	"fmt"

	"sha2-go/internal/hexcodec"
)

// ErrDigestLength is returned when a value does not hold exactly Size bytes.
var ErrDigestLength = errors.New("digest must be 32 bytes")

// Digest is a SHA-256 hash value. Digests compare with ==.
type Digest [Size]byte

// String returns the 64-character lowercase hex form.
func (d Digest) String() string { return hexcodec.Encode(d[:]) }

// Bytes returns a copy of the digest as a slice.
func (d Digest) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, d[:])
	return b
}

// IsZero reports whether d is the zero value, which is never a valid
// output of Done.
func (d Digest) IsZero() bool { return d == Digest{} }

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return hexcodec.Append(make([]byte, 0, Size*2), d[:]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes a 64-character hex string in either case.
func ParseDigest(s string) (Digest, error) {
	b, err := hexcodec.Decode(s)
	if err != nil {
		return Digest{}, fmt.Errorf("parsing digest: %w", err)
	}
	return DigestFromBytes(b)
}

// DigestFromBytes copies b into a Digest. b must be exactly Size bytes long.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, fmt.Errorf("%w, got %d", ErrDigestLength, len(b))
	}
	copy(d[:], b)
	return d, nil
}
