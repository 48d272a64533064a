// Package sha2 implements an incremental SHA-256 hash engine as defined in
// FIPS 180-4.
//
// A Context accumulates input through Update and is finalized exactly once
// with Done. After Done the context refuses further input until
// Reinitialize returns it to the initial state:
//
//	ctx := sha2.New()
//	ctx.Update(header)
//	ctx.Update(body)
//	digest, err := ctx.Done()
//
// A Context is not safe for concurrent use. Callers sharing one across
// goroutines must serialize Update, Done and Reinitialize themselves.
package sha2

import (
	"encoding/binary"
	"errors"
)

const (
	// Size is the length of a SHA-256 digest in bytes.
	Size = 32

	// BlockSize is the number of bytes consumed by one compression.
	BlockSize = 64

	// lengthOffset is where the 64-bit message length starts in the final block.
	lengthOffset = BlockSize - 8
)

// ErrNotReady is returned by Update and Done once the context has been
// finalized and not yet reinitialized.
var ErrNotReady = errors.New("sha2 context is not ready")

// Initial hash words, FIPS 180-4 section 5.3.3.
var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// Context holds the running state of one SHA-256 computation.
type Context struct {
	h      [8]uint32
	buf    [BlockSize]byte
	nbuf   int    // pending bytes in buf, always < BlockSize between calls
	length uint64 // total bytes passed to Update
	ready  bool
}

// New returns a context ready to accept input.
func New() *Context {
	c := &Context{}
	c.Reinitialize()
	return c
}

// Reinitialize discards all accumulated input and returns the context to
// the state produced by New.
func (c *Context) Reinitialize() {
	c.h = iv
	c.buf = [BlockSize]byte{}
	c.nbuf = 0
	c.length = 0
	c.ready = true
}

// Ready reports whether the context accepts input, i.e. Done has not been
// called since construction or the last Reinitialize.
func (c *Context) Ready() bool { return c.ready }

// Len returns the number of bytes hashed so far in this session.
func (c *Context) Len() uint64 { return c.length }

// Update appends p to the message. Any complete 64-byte blocks are
// compressed immediately. It returns ErrNotReady after Done.
func (c *Context) Update(p []byte) error {
	if !c.ready {
		return ErrNotReady
	}
	c.length += uint64(len(p))
	c.absorb(p)
	return nil
}

// Write makes Context an io.Writer. It fails with ErrNotReady after Done.
func (c *Context) Write(p []byte) (int, error) {
	if err := c.Update(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Done pads the message, compresses the final block(s) and returns the
// digest. The context is no longer ready afterwards; a second call returns
// ErrNotReady and a zero Digest.
func (c *Context) Done() (Digest, error) {
	if !c.ready {
		return Digest{}, ErrNotReady
	}

	// 0x80, zeros up to 56 mod 64, then the bit length big-endian.
	var pad [BlockSize + 8]byte
	pad[0] = 0x80
	n := lengthOffset - c.nbuf
	if c.nbuf >= lengthOffset {
		n += BlockSize
	}
	binary.BigEndian.PutUint64(pad[n:], c.length<<3)
	c.absorb(pad[:n+8])

	var d Digest
	for i, w := range c.h {
		binary.BigEndian.PutUint32(d[i*4:], w)
	}
	c.ready = false
	return d, nil
}

// absorb feeds p through the block buffer without touching the length counter.
func (c *Context) absorb(p []byte) {
	if c.nbuf > 0 {
		n := copy(c.buf[c.nbuf:], p)
		c.nbuf += n
		p = p[n:]
		if c.nbuf < BlockSize {
			return
		}
		block(&c.h, c.buf[:])
		c.nbuf = 0
	}
	for len(p) >= BlockSize {
		block(&c.h, p[:BlockSize])
		p = p[BlockSize:]
	}
	c.nbuf = copy(c.buf[:], p)
}

// Sum returns the SHA-256 digest of data.
func Sum(data []byte) Digest {
	c := New()
	_ = c.Update(data)
	d, _ := c.Done()
	return d
}
