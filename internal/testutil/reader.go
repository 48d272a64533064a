package testutil

import "errors"

// ErrInjected is returned by FailingReader once its data is exhausted.
var ErrInjected = errors.New("injected read failure")

// FailingReader yields data in chunks of at most Chunk bytes, then fails
// with ErrInjected instead of io.EOF.
type FailingReader struct {
	Data  []byte
	Chunk int
}

func (r *FailingReader) Read(p []byte) (int, error) {
	if len(r.Data) == 0 {
		return 0, ErrInjected
	}
	n := len(p)
	if r.Chunk > 0 && n > r.Chunk {
		n = r.Chunk
	}
	n = copy(p[:n], r.Data)
	r.Data = r.Data[n:]
	return n, nil
}
