package reqhead

import (
	"strings"
	"testing"

	"github.com/indigo-web/reqhead/config"
	"github.com/indigo-web/reqhead/internal/eventlog"
	"github.com/indigo-web/reqhead/internal/requestgen"
	"github.com/indigo-web/reqhead/status"
	"github.com/stretchr/testify/require"
)

func getStream(cfg *config.Config) (*Stream[*eventlog.Log], *eventlog.Log) {
	if cfg == nil {
		cfg = config.Default()
	}

	log := eventlog.New()
	return NewStream(log, cfg), log
}

func splitIntoParts(req []byte, n int) (parts [][]byte) {
	for i := 0; i < len(req); i += n {
		end := i + n
		if end > len(req) {
			end = len(req)
		}

		parts = append(parts, req[i:end])
	}

	return parts
}

// feedPartially feeds the request in chunks of n bytes. Returns everything following the head,
// both from the chunk completing it and the ones never fed.
func feedPartially(stream *Stream[*eventlog.Log], raw []byte, n int) (done bool, rest []byte, err error) {
	parts := splitIntoParts(raw, n)

	for i, chunk := range parts {
		var extra []byte
		done, extra, err = stream.Feed(chunk)
		if err != nil {
			return done, nil, err
		}

		if done {
			rest = append(rest, extra...)
			for _, part := range parts[i+1:] {
				rest = append(rest, part...)
			}

			return done, rest, nil
		}
	}

	return done, nil, nil
}

// withoutTail drops the tail of the headers-done event, as it depends on how the bytes were
// chunked.
func withoutTail(events []eventlog.Event) []eventlog.Event {
	events = append([]eventlog.Event(nil), events...)
	last := &events[len(events)-1]
	if last.Kind == eventlog.HeadersDone {
		last.Value = ""
	}

	return events
}

func TestStream(t *testing.T) {
	t.Run("every chunk size", func(t *testing.T) {
		requests := []string{
			scenario,
			"GET / HTTP/1.1\r\n\r\n",
			"PUT /hello%20world?a=1#b HTTP/1.0\r\nContent-Length: 0\r\nX-Empty:\r\nA:\t b \r\n\r\n",
			string(requestgen.Generate(strings.Repeat("a", 100), requestgen.Headers(10))),
		}

		for _, raw := range requests {
			want, wantNread := parseWhole(t, raw)

			for n := 1; n <= len(raw); n++ {
				stream, log := getStream(nil)
				done, rest, err := feedPartially(stream, []byte(raw), n)
				require.NoError(t, err)
				require.True(t, done)
				require.Empty(t, rest)
				require.Equal(t, wantNread, stream.Nread())
				require.Equal(t, want, log.Events, "chunk size %d", n)
			}
		}
	})

	t.Run("body and pipelined requests", func(t *testing.T) {
		head := "POST /submit HTTP/1.1\r\nContent-Length: 5\r\n\r\n"
		tail := "HelloGET / HTTP/1.1\r\n\r\n"
		want, _ := parseWhole(t, head)

		for n := 1; n <= len(head)+len(tail); n++ {
			stream, log := getStream(nil)
			done, rest, err := feedPartially(stream, []byte(head+tail), n)
			require.NoError(t, err)
			require.True(t, done)
			require.Equal(t, tail, string(rest), "chunk size %d", n)
			require.Equal(t, len(head), stream.Nread())
			require.Equal(t, withoutTail(want), withoutTail(log.Events))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		raw := []byte("GET / HTTP/1.1\r\nBad Header: x\r\n\r\n")

		for n := 1; n <= len(raw); n++ {
			stream, _ := getStream(nil)
			done, rest, err := feedPartially(stream, raw, n)
			require.True(t, done)
			require.Empty(t, rest)
			require.ErrorIs(t, err, status.ErrBadHeaderName)
			require.True(t, stream.HasError())
			require.Equal(t, Error, stream.State())
			require.Equal(t, len("GET / HTTP/1.1\r\nBad"), stream.Nread())
		}
	})

	t.Run("pending", func(t *testing.T) {
		stream, log := getStream(nil)
		done, extra, err := stream.Feed([]byte("GET /a HTTP/1.1\r\nHost: x"))
		require.False(t, done)
		require.Empty(t, extra)
		require.NoError(t, err)
		require.False(t, stream.IsFinished())
		require.False(t, stream.HasError())
		require.Equal(t, HeaderValue, stream.State())
		require.Empty(t, log.Headers())
	})

	t.Run("done is sticky", func(t *testing.T) {
		stream, log := getStream(nil)
		done, _, err := stream.Feed([]byte(scenario))
		require.True(t, done)
		require.NoError(t, err)
		events := len(log.Events)

		done, extra, err := stream.Feed([]byte("more"))
		require.True(t, done)
		require.Equal(t, "more", string(extra))
		require.NoError(t, err)
		require.Len(t, log.Events, events)
	})

	t.Run("reuse after reset", func(t *testing.T) {
		stream, log := getStream(nil)
		want, _ := parseWhole(t, scenario)

		for i := 0; i < 3; i++ {
			done, _, err := stream.Feed([]byte("GARBAGE\r\n"))
			require.True(t, done)
			require.Error(t, err)

			stream.Reset()
			log.Clear()
			require.False(t, stream.HasError())
			require.Equal(t, Start, stream.State())

			done, rest, err := feedPartially(stream, []byte(scenario), 3)
			require.True(t, done)
			require.Empty(t, rest)
			require.NoError(t, err)
			require.Equal(t, want, log.Events)

			stream.Reset()
			log.Clear()
		}
	})
}

func TestStream_HeadLimit(t *testing.T) {
	limited := func(maximal int) *config.Config {
		cfg := config.Default()
		cfg.Head.Size.Default = 16
		cfg.Head.Size.Maximal = maximal
		return cfg
	}

	t.Run("exceeded in a single chunk", func(t *testing.T) {
		raw := requestgen.Generate("", requestgen.Headers(5))
		stream, log := getStream(limited(64))
		done, extra, err := stream.Feed(raw)
		require.True(t, done)
		require.Empty(t, extra)
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
		require.Equal(t, status.RequestHeaderFieldsTooLarge, status.CodeOf(err))
		require.True(t, stream.HasError())
		require.False(t, stream.IsFinished())
		require.Equal(t, Error, stream.State())
		require.ErrorIs(t, stream.Err(), status.ErrHeaderFieldsTooLarge)

		for _, event := range log.Events {
			require.NotEqual(t, eventlog.HeadersDone, event.Kind)
		}

		done, _, err = stream.Feed([]byte("\r\n"))
		require.True(t, done)
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
	})

	t.Run("exceeded over multiple chunks", func(t *testing.T) {
		raw := requestgen.Generate("", requestgen.Headers(5))
		for n := 1; n < 64; n += 7 {
			stream, _ := getStream(limited(64))
			done, _, err := feedPartially(stream, raw, n)
			require.True(t, done)
			require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
		}
	})

	t.Run("malformed before the limit is malformed", func(t *testing.T) {
		raw := []byte("GET / HTTP/1.1\r\nBad Header: " + strings.Repeat("x", 100))
		stream, _ := getStream(limited(64))
		_, _, err := stream.Feed(raw)
		require.ErrorIs(t, err, status.ErrBadHeaderName)
	})

	t.Run("head exactly at the limit", func(t *testing.T) {
		head := "GET /limit HTTP/1.1\r\nHost: x\r\n\r\n"
		body := strings.Repeat("b", 100)
		stream, log := getStream(limited(len(head)))
		finished, extra, err := stream.Feed([]byte(head + body))
		require.True(t, finished)
		require.NoError(t, err)
		require.Equal(t, body, string(extra))
		require.Equal(t, done(len(head), ""), log.Events[len(log.Events)-1])
	})
}
