package testutil

import (
	"encoding/hex"

	sha256simd "github.com/minio/sha256-simd"
)

// ReferenceSHA256Hex returns the SHA-256 of data as lowercase hex, computed by
// an independent implementation. Tests compare the engine's output against it.
func ReferenceSHA256Hex(data []byte) string {
	h := sha256simd.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ReferenceTaggedHex returns SHA256(SHA256(tag) || SHA256(tag) || data) as hex.
func ReferenceTaggedHex(tag string, data []byte) string {
	t := sha256simd.Sum256([]byte(tag))
	h := sha256simd.New()
	h.Write(t[:])
	h.Write(t[:])
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
