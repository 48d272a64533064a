package sha2

// NewTagged returns a context that has already absorbed SHA256(tag) twice.
// The prefix fills exactly one block, so the caller's data starts on a
// block boundary.
//
// Reinitialize on a tagged context returns it to the plain, untagged state.
func NewTagged(tag string) *Context {
	t := Sum([]byte(tag))
	c := New()
	_ = c.Update(t[:])
	_ = c.Update(t[:])
	return c
}

// TaggedSum returns the tagged hash of the concatenation of parts.
func TaggedSum(tag string, parts ...[]byte) Digest {
	c := NewTagged(tag)
	for _, p := range parts {
		_ = c.Update(p)
	}
	d, _ := c.Done()
	return d
}
