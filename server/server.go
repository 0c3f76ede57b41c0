// Package server hosts request-head parsing on top of gnet's event loops. Every connection owns
// a reqhead.Stream feeding an environ, which is handed to the Handler once the head is complete.
// Request bodies aren't decoded: a request declaring one is answered and then disconnected.
package server

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/indigo-web/reqhead/config"
	"github.com/indigo-web/reqhead/environ"
	"github.com/panjf2000/gnet/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Handler serves a single request. ctx carries the request's span and is cancelled once the
// server is stopped. env must not be retained after the call returns.
type Handler func(ctx context.Context, env *environ.Environ) Response

type Option func(*Server)

// WithLogger overrides log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// WithTracer overrides the tracer obtained from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithCGI makes handlers receive environs with the conventional CGI naming, see environ.NewCGI.
func WithCGI() Option {
	return func(s *Server) {
		s.newEnviron = environ.NewCGI
	}
}

type Server struct {
	gnet.BuiltinEventEngine
	cfg        *config.Config
	handler    Handler
	logger     *log.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	newEnviron func() *environ.Environ
	host, port string
	ctx        context.Context
	cancel     context.CancelFunc
	engine     gnet.Engine
}

func New(cfg *config.Config, handler Handler, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:        cfg,
		handler:    handler,
		logger:     log.Default(),
		tracer:     otel.Tracer(tracerName),
		propagator: propagation.TraceContext{},
		newEnviron: environ.New,
		ctx:        ctx,
		cancel:     cancel,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.host, s.port = splitAddr(cfg.NET.Addr)

	return s
}

// Run starts the event loops and blocks until the server is stopped.
func (s *Server) Run() error {
	err := gnet.Run(s, "tcp://"+s.cfg.NET.Addr,
		gnet.WithMulticore(s.cfg.NET.Multicore),
		gnet.WithNumEventLoop(s.cfg.NET.NumEventLoop),
		gnet.WithReusePort(s.cfg.NET.ReusePort),
		gnet.WithReadBufferCap(s.cfg.NET.ReadBufferCap),
		gnet.WithWriteBufferCap(s.cfg.NET.WriteBufferCap),
		gnet.WithTCPKeepAlive(s.cfg.NET.TCPKeepAlive),
		gnet.WithTCPNoDelay(gnet.TCPNoDelay),
		gnet.WithLogger(silentGnetLogger{}),
	)
	if err != nil {
		return fmt.Errorf("run event loops: %w", err)
	}

	return nil
}

// Stop cancels contexts of running handlers and stops the event loops.
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	if err := s.engine.Stop(ctx); err != nil {
		return fmt.Errorf("stop event loops: %w", err)
	}

	return nil
}

func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.engine = eng
	s.logger.Printf("listening on %s (multicore: %v)", s.cfg.NET.Addr, s.cfg.NET.Multicore)
	return gnet.None
}

func (s *Server) OnShutdown(gnet.Engine) {
	s.logger.Printf("shut down")
}

func (s *Server) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(s.newConn(c.RemoteAddr()))
	s.metrics.opened()
	return nil, gnet.None
}

func (s *Server) OnClose(c gnet.Conn, err error) gnet.Action {
	s.metrics.closed()
	if err != nil {
		s.logger.Printf("connection with %s closed: %v", c.RemoteAddr(), err)
	}

	return gnet.None
}

func (s *Server) OnTraffic(c gnet.Conn) gnet.Action {
	cn, ok := c.Context().(*conn)
	if !ok {
		return gnet.Close
	}

	data, err := c.Next(-1)
	if err != nil {
		s.logger.Printf("read from %s: %v", c.RemoteAddr(), err)
		return gnet.Close
	}

	// the outbound data is flushed by gnet before the connection is closed
	if cn.process(s.ctx, data, c) {
		return gnet.Close
	}

	return gnet.None
}

func splitAddr(addr string) (host, port string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, ""
	}

	return host, port
}

// silentGnetLogger discards gnet's own output, the server logs what matters itself.
type silentGnetLogger struct{}

func (silentGnetLogger) Debugf(string, ...any) {}
func (silentGnetLogger) Infof(string, ...any)  {}
func (silentGnetLogger) Warnf(string, ...any)  {}
func (silentGnetLogger) Errorf(string, ...any) {}
func (silentGnetLogger) Fatalf(string, ...any) {}
