package handler

import (
	"errors"
	"io"
	"sync"
)

// streamReader wraps a document body handed to fasthttp. Read errors can no longer become an
// HTTP error at that point, so they are reported through done together with the byte count.
type streamReader struct {
	r    io.Reader
	c    io.Closer
	sent int64
	err  error
	once sync.Once
	done func(sent int64, err error)
}

func (s *streamReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.sent += int64(n)
	if err != nil && !errors.Is(err, io.EOF) && s.err == nil {
		s.err = err
	}
	return n, err
}

// Close is called by fasthttp once the body has been written or the transfer aborted.
func (s *streamReader) Close() error {
	err := s.c.Close()
	s.once.Do(func() {
		if s.done != nil {
			s.done(s.sent, s.err)
		}
	})
	return err
}
