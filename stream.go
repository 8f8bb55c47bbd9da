package waveread

import (
	"io"
	"sync"
)

// Source is the byte stream a Reader pulls sample data from. It must support
// seeking to arbitrary absolute offsets.
type Source interface {
	io.Reader
	io.Seeker
	// Err reports the last read or seek failure, nil while the source is healthy.
	Err() error
}

// Stream adapts any io.ReadSeeker into a Source, tracking its position and
// the last failure seen.
type Stream struct {
	mu       sync.Mutex
	rs       io.ReadSeeker
	Position int64
	err      error
}

func NewStream(rs io.ReadSeeker) *Stream {
	return &Stream{rs: rs}
}

// Read implements the io.Reader interface for Stream.
// A short read leaves the stream unhealthy until the next successful Seek.
func (s *Stream) Read(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err = s.rs.Read(p)
	s.Position += int64(n)
	if err != nil && err != io.EOF {
		s.err = err
	}
	if n == 0 && len(p) > 0 && err == io.EOF {
		s.err = err
	}
	return n, err
}

// Seek implements io.Seeker. A successful seek clears a previous failure.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.rs.Seek(offset, whence)
	if err != nil {
		s.err = err
		return pos, err
	}
	s.Position = pos
	s.err = nil
	return pos, nil
}

func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// asSource returns rs as a Source, wrapping it in a Stream when needed.
func asSource(rs io.ReadSeeker) Source {
	if rs == nil {
		return nil
	}
	if src, ok := rs.(Source); ok {
		return src
	}
	return NewStream(rs)
}
