package sha2

import (
	"bytes"
	"testing"

	sha256simd "github.com/minio/sha256-simd"
)

func TestTaggedSum_MatchesConstruction(t *testing.T) {
	const tag = "webcashwalletv1"
	parts := [][]byte{{0, 0, 0, 0, 0, 0, 0, 1}, {0, 0, 0, 0, 0, 0, 0, 42}}

	tagHash := sha256simd.Sum256([]byte(tag))
	var msg []byte
	msg = append(msg, tagHash[:]...)
	msg = append(msg, tagHash[:]...)
	for _, p := range parts {
		msg = append(msg, p...)
	}
	want := sha256simd.Sum256(msg)

	got := TaggedSum(tag, parts...)
	if !bytes.Equal(got[:], want[:]) {
		t.Errorf("TaggedSum() = %s, want %x", got, want)
	}
}

func TestNewTagged(t *testing.T) {
	t.Run("prefix fills one block", func(t *testing.T) {
		c := NewTagged("x")
		if c.Len() != BlockSize {
			t.Errorf("Len() = %d, want %d", c.Len(), BlockSize)
		}
	})

	t.Run("tags separate domains", func(t *testing.T) {
		a := TaggedSum("alpha", []byte("payload"))
		b := TaggedSum("beta", []byte("payload"))
		if a == b {
			t.Error("different tags produced the same digest")
		}
		if a == Sum([]byte("payload")) {
			t.Error("tagged digest equals untagged digest")
		}
	})

	t.Run("reinitialize drops the tag", func(t *testing.T) {
		c := NewTagged("alpha")
		c.Reinitialize()
		_ = c.Update([]byte("abc"))
		d, _ := c.Done()
		if d.String() != shaOfABC {
			t.Errorf("got %s, want %s", d, shaOfABC)
		}
	})
}
