package config

import "time"

type (
	HeadSize struct {
		Default, Maximal int
	}
)

type (
	Head struct {
		// Size limits the buffer used to reassemble a request head when it arrives in several
		// chunks. Default value is the initial capacity, Maximal is the hard limit: a head
		// exceeding it is rejected with status.ErrHeaderFieldsTooLarge. The parser itself
		// doesn't enforce any limit, it's a host's decision.
		Size HeadSize
	}

	NET struct {
		// Addr is the TCP address the server listens on.
		Addr string
		// Multicore runs an event loop per CPU core.
		Multicore bool `test:"nullable"`
		// NumEventLoop overrides the number of event loops. Zero leaves the choice to gnet.
		NumEventLoop int `test:"nullable"`
		// ReusePort enables SO_REUSEPORT on the listener.
		ReusePort bool `test:"nullable"`
		// ReadBufferCap is the capacity of the per-connection inbound buffer, i.e. how many
		// bytes are read from a socket at most in one go.
		ReadBufferCap int
		// WriteBufferCap is the capacity of the per-connection outbound buffer.
		WriteBufferCap int
		// TCPKeepAlive is the keep-alive period of accepted connections. Idle clients beyond it
		// are detected and dropped by the kernel.
		TCPKeepAlive time.Duration
	}
)

// Config holds limits of the request-head reassembly and the tuning of the event-loop host.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Head Head
	NET  NET
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Head: Head{
			Size: HeadSize{
				Default: 2 * 1024,
				// most web-entities limit the request head to 8-16kb. Everything above is
				// most likely either a broken or a malicious client.
				Maximal: 16 * 1024,
			},
		},
		NET: NET{
			Addr:           "0.0.0.0:8080",
			Multicore:      true,
			ReadBufferCap:  64 * 1024,
			WriteBufferCap: 64 * 1024,
			TCPKeepAlive:   time.Minute,
		},
	}
}
