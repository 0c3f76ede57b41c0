package reqhead

// Sink receives the tokens of a request head in the order they are recognized. Every method
// is called synchronously from Parser.Execute; the slices alias the caller's buffer, so they
// must be copied if they are supposed to outlive the call.
type Sink interface {
	OnMethod(method []byte)
	// OnRequestURI carries the whole request target as it was received, including the query
	// and the fragment. It's called after OnPath, OnQueryString and OnFragment.
	OnRequestURI(uri []byte)
	OnPath(path []byte)
	// OnQueryString is called only if the request target contains '?'. The leading '?' isn't
	// included.
	OnQueryString(query []byte)
	// OnFragment is called only if the request target contains '#'. The leading '#' isn't
	// included.
	OnFragment(fragment []byte)
	OnHTTPVersion(version []byte)
	// OnHeaderField carries a header field exactly as received: no case-folding, no
	// dash substitution, no merging of repeated names. Leading whitespace of the value is
	// stripped, trailing is kept.
	OnHeaderField(name, value []byte)
	// OnHeadersDone is called once the empty line terminating the head is received. bodyStart
	// is the offset of the first byte following the head in the buffer passed to Execute, rest
	// is everything from that offset on (possibly empty).
	OnHeadersDone(bodyStart int, rest []byte)
}

// NopSink ignores every event. Embed it in order to implement only a part of Sink.
type NopSink struct{}

func (NopSink) OnMethod([]byte) {}
func (NopSink) OnRequestURI([]byte) {}
func (NopSink) OnPath([]byte) {}
func (NopSink) OnQueryString([]byte) {}
func (NopSink) OnFragment([]byte) {}
func (NopSink) OnHTTPVersion([]byte) {}
func (NopSink) OnHeaderField(_, _ []byte) {}
func (NopSink) OnHeadersDone(int, []byte) {}
