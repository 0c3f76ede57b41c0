package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/indigo-web/reqhead"
	"github.com/indigo-web/reqhead/environ"
	"github.com/indigo-web/reqhead/status"
	"github.com/indigo-web/utils/strcomp"
)

// conn is the per-connection state. It's touched only by the event loop owning the connection.
type conn struct {
	srv        *Server
	env        *environ.Environ
	stream     *reqhead.Stream[*environ.Environ]
	remoteAddr string
	out        []byte
}

func (s *Server) newConn(remote net.Addr) *conn {
	env := s.newEnviron()
	c := &conn{
		srv:    s,
		env:    env,
		stream: reqhead.NewStream(env, s.cfg),
	}

	if remote != nil {
		c.remoteAddr, _ = splitAddr(remote.String())
	}

	c.seed()
	return c
}

// seed fills the entries describing the connection rather than the request.
func (c *conn) seed() {
	c.env.Set(environ.RemoteAddr, c.remoteAddr)
	c.env.Set(environ.ServerName, c.srv.host)
	c.env.Set(environ.ServerPort, c.srv.port)
}

func (c *conn) reset() {
	c.stream.Reset()
	c.env.Clear()
	c.seed()
}

// process feeds the newly arrived data and writes responses for every completed request into
// w. Bytes following a complete head are fed back as the beginning of the next request.
// Returns whether the connection must be closed.
func (c *conn) process(ctx context.Context, data []byte, w io.Writer) (closeConn bool) {
	for {
		done, extra, err := c.stream.Feed(data)
		if !done {
			return false
		}

		if err != nil {
			c.srv.metrics.malformed(err)
			c.srv.logger.Printf("malformed request from %s: %v", c.remoteAddr, err)
			c.out = errorResponse(err).render(c.out[:0], defaultProtocol, false)
			_ = c.flush(w)
			return true
		}

		keepAlive, err := c.serve(ctx, w)
		if err != nil {
			c.srv.logger.Printf("respond to %s: %v", c.remoteAddr, err)
			return true
		}

		if !keepAlive {
			return true
		}

		c.reset()
		if len(extra) == 0 {
			return false
		}

		data = extra
	}
}

// serve calls the handler for the request in the environ and writes the response.
func (c *conn) serve(ctx context.Context, w io.Writer) (keepAlive bool, err error) {
	env := c.env
	version := env.Version()
	keepAlive = isKeepAlive(env, version) && !hasBody(env)
	c.out = c.out[:0]

	if expect, found := env.Header("Expect"); found && version == "HTTP/1.1" {
		if !strcomp.EqualFold(expect, "100-continue") {
			c.out = Respond(status.ExpectationFailed, "unsupported expectation").
				render(c.out, version, false)
			return false, c.flush(w)
		}

		c.out = renderContinue(c.out)
	}

	start := time.Now()
	resp, panicked := c.call(ctx)
	c.srv.metrics.served(env.Method(), resp.Code, c.stream.Nread(), time.Since(start))

	c.out = resp.render(c.out, version, keepAlive && !panicked)
	return keepAlive && !panicked, c.flush(w)
}

// call runs the handler, turning its panic into an Internal Server Error.
func (c *conn) call(ctx context.Context) (resp Response, panicked bool) {
	ctx, span := c.srv.startSpan(ctx, c.env)
	defer func() {
		if r := recover(); r != nil {
			c.srv.logger.Printf("handler panicked serving %s: %v", c.remoteAddr, r)
			resp, panicked = Respond(status.InternalServerError, "internal server error"), true
		}

		if resp.Code == 0 {
			resp.Code = status.OK
		}

		endSpan(span, resp.Code)
	}()

	return c.srv.handler(ctx, c.env), false
}

func (c *conn) flush(w io.Writer) error {
	if _, err := w.Write(c.out); err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	return nil
}

// isKeepAlive decides whether the connection persists after the response. HTTP/1.1 connections
// persist unless the client asked to close them, older ones only if the client asked to keep
// them alive.
func isKeepAlive(env *environ.Environ, version string) bool {
	connection, _ := env.Header("Connection")

	if version == "HTTP/1.1" {
		return !strcomp.EqualFold(connection, "close")
	}

	return strcomp.EqualFold(connection, "keep-alive")
}

// hasBody reports whether the request declares a body. As bodies aren't decoded, the bytes
// following such a head can't be told apart from the next request.
func hasBody(env *environ.Environ) bool {
	if _, found := env.Header("Transfer-Encoding"); found {
		return true
	}

	length, found := env.Header("Content-Length")
	return found && length != "0"
}
