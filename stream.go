package reqhead

import (
	"github.com/indigo-web/reqhead/config"
	"github.com/indigo-web/reqhead/internal/buffer"
	"github.com/indigo-web/reqhead/status"
)

// Stream adapts Parser to hosts, which hand over only the newly arrived bytes. Chunks are
// accumulated in a bounded buffer, therefore tokens split among chunks are recognized exactly
// as if the whole head arrived at once. The buffer is bounded by cfg.Head.Size.Maximal: heads
// exceeding it are rejected with status.ErrHeaderFieldsTooLarge.
//
// Slices passed to the sink alias the internal buffer and stay valid until Reset.
type Stream[S Sink] struct {
	parser Parser[S]
	buff   buffer.Buffer
	// err is set when the head outgrows the buffer. Malformed input is tracked by the parser
	err error
}

func NewStream[S Sink](sink S, cfg *config.Config) *Stream[S] {
	return &Stream[S]{
		parser: New(sink),
		buff:   buffer.New(cfg.Head.Size.Default, cfg.Head.Size.Maximal),
	}
}

// Feed consumes a chunk. done is true once the head is either complete or malformed. In the
// first case extra holds the bytes of the chunk following the head, which are either a body
// or a pipelined request. In the second case err is set. After being done, the stream must
// be reset before feeding it anew.
func (s *Stream[S]) Feed(chunk []byte) (done bool, extra []byte, err error) {
	switch {
	case s.HasError():
		return true, nil, s.Err()
	case s.parser.IsFinished():
		return true, chunk, nil
	}

	// the parser always consumes everything it was given, unless it's finished or failed.
	// So the offset of the chunk in the buffer is exactly the number of already consumed bytes
	offset := s.buff.Len()
	fits := chunk
	if free := s.buff.Free(); len(fits) > free {
		fits = fits[:free]
	}

	_ = s.buff.Append(fits)
	nread := s.parser.Execute(s.buff.Preview())

	switch {
	case s.parser.HasError():
		return true, nil, s.parser.Err()
	case s.parser.IsFinished():
		return true, chunk[nread-offset:], nil
	case len(fits) < len(chunk):
		s.err = status.ErrHeaderFieldsTooLarge
		return true, nil, s.err
	}

	return false, nil, nil
}

// Reset prepares the stream to the next message. The content of the buffer is lost, so all
// the slices previously passed to the sink must not be used anymore.
func (s *Stream[S]) Reset() {
	s.parser.Reset()
	s.buff.Clear()
	s.err = nil
}

func (s *Stream[S]) Nread() int {
	return s.parser.Nread()
}

func (s *Stream[S]) HasError() bool {
	return s.err != nil || s.parser.HasError()
}

func (s *Stream[S]) IsFinished() bool {
	return s.parser.IsFinished()
}

func (s *Stream[S]) Err() error {
	if s.err != nil {
		return s.err
	}

	return s.parser.Err()
}

func (s *Stream[S]) State() State {
	if s.err != nil {
		return Error
	}

	return s.parser.State()
}
