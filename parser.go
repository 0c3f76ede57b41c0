// Package reqhead implements an incremental parser of HTTP/1.1 request heads: the request
// line and the header block. The parser is fed with bytes as they arrive, recognizes every
// token as soon as its terminator is seen and hands it over to a Sink, never blocking and
// never copying the input.
package reqhead

import (
	"fmt"

	"github.com/indigo-web/reqhead/status"
)

// Parser is a resumable request-head parser. It holds nothing but scan positions, so the
// caller must pass the same growing buffer on every call to Execute: all the bytes of the
// current message delivered so far, starting from its first byte. Scanning resumes from
// Nread(), therefore every byte is looked at once regardless of how the message was split.
// See Stream for the chunk-wise alternative.
//
// The parser must be constructed via New. Once it's finished or failed, it stays so until
// Reset is called.
type Parser[S Sink] struct {
	sink  S
	err   error
	nread int
	// mark is the offset of the token being accumulated
	mark    int
	uriMark int
	// nameStart and nameEnd keep the field name while its value is being scanned
	nameStart, nameEnd int
	// tokenEnd is the end of a token whose CRLF is not received completely yet
	tokenEnd int
	state    parserState
}

// New returns a parser ready to consume a new message.
func New[S Sink](sink S) Parser[S] {
	return Parser[S]{
		sink:  sink,
		state: eStart,
	}
}

// Execute resumes the parser over data, starting from the offset Nread() returns. data must
// contain the same bytes as on previous calls, optionally extended by newly arrived ones.
// Returns the new total number of consumed bytes. Once the head is complete, the returned
// value is the offset of the body. If the parser has already finished or failed, the call
// does nothing.
func (p *Parser[S]) Execute(data []byte) int {
	switch p.state {
	case eFinished, eError:
		return p.nread
	}

	if p.nread > len(data) {
		panic(fmt.Sprintf("BUG: got %d bytes, but %d are already consumed", len(data), p.nread))
	}

	p.nread = p.scan(data, p.nread)
	return p.nread
}

// HasError reports whether malformed input was met.
func (p *Parser[S]) HasError() bool {
	return p.state == eError
}

// IsFinished reports whether the whole head, including the terminating empty line, is
// received.
func (p *Parser[S]) IsFinished() bool {
	return p.state == eFinished
}

// Err returns the reason of the failure, or nil if the parser didn't fail. The error is
// always one of status' malformed-input errors.
func (p *Parser[S]) Err() error {
	return p.err
}

// Nread returns the number of bytes consumed since the parser was constructed or reset.
func (p *Parser[S]) Nread() int {
	return p.nread
}

func (p *Parser[S]) State() State {
	return p.state.public()
}

func (p *Parser[S]) Sink() S {
	return p.sink
}

// Reset brings the parser to its initial state, so the next message can be parsed. The sink
// is kept.
func (p *Parser[S]) Reset() {
	*p = New(p.sink)
}

func (p *Parser[S]) scan(data []byte, i int) int {
	sink := p.sink

	switch p.state {
	case eStart:
		goto start
	case eMethod:
		goto method
	case ePath:
		goto path
	case eQuery:
		goto query
	case eFragment:
		goto fragment
	case eVersion:
		goto version
	case eVersionCR:
		goto versionCR
	case eHeaderStart:
		goto headerStart
	case eHeaderName:
		goto headerName
	case eHeaderOWS:
		goto headerOWS
	case eHeaderValue:
		goto headerValue
	case eHeaderValueCR:
		goto headerValueCR
	case eHeadersDoneCR:
		goto headersDoneCR
	default:
		panic(fmt.Sprintf("BUG: unexpected state: %v", p.state))
	}

start:
	if i == len(data) {
		return i
	}

	p.mark = i
	// fallthrough to method

method:
	for ; i < len(data); i++ {
		if char := data[i]; char == ' ' {
			if i == p.mark {
				return p.fail(i, status.ErrBadMethod)
			}

			sink.OnMethod(data[p.mark:i])
			i++
			goto uri
		} else if !isTokenChar(char) {
			return p.fail(i, status.ErrBadMethod)
		}
	}

	p.state = eMethod
	return i

uri:
	p.uriMark, p.mark = i, i
	// fallthrough to path

path:
	for ; i < len(data); i++ {
		switch char := data[i]; char {
		case '?':
			sink.OnPath(data[p.mark:i])
			i++
			p.mark = i
			goto query
		case '#':
			sink.OnPath(data[p.mark:i])
			i++
			p.mark = i
			goto fragment
		case ' ':
			if i == p.uriMark {
				return p.fail(i, status.ErrBadRequestURI)
			}

			sink.OnPath(data[p.mark:i])
			goto uriEnd
		default:
			if isProhibitedChar(char) {
				return p.fail(i, status.ErrBadRequestURI)
			}
		}
	}

	p.state = ePath
	return i

query:
	for ; i < len(data); i++ {
		switch char := data[i]; char {
		case '#':
			sink.OnQueryString(data[p.mark:i])
			i++
			p.mark = i
			goto fragment
		case ' ':
			sink.OnQueryString(data[p.mark:i])
			goto uriEnd
		default:
			if isProhibitedChar(char) {
				return p.fail(i, status.ErrBadRequestURI)
			}
		}
	}

	p.state = eQuery
	return i

fragment:
	for ; i < len(data); i++ {
		switch char := data[i]; char {
		case ' ':
			sink.OnFragment(data[p.mark:i])
			goto uriEnd
		case '#':
			return p.fail(i, status.ErrBadRequestURI)
		default:
			if isProhibitedChar(char) {
				return p.fail(i, status.ErrBadRequestURI)
			}
		}
	}

	p.state = eFragment
	return i

uriEnd:
	// data[i] is the space right after the request target
	sink.OnRequestURI(data[p.uriMark:i])
	i++
	p.mark = i
	// fallthrough to version

version:
	for ; i < len(data); i++ {
		switch char := data[i]; char {
		case '\r':
			if !isHTTPVersion(data[p.mark:i]) {
				return p.fail(i, status.ErrBadHTTPVersion)
			}

			p.tokenEnd = i
			i++
			goto versionCR
		case '\n':
			return p.fail(i, status.ErrBadLineEnding)
		default:
			if char == ' ' || isProhibitedChar(char) {
				return p.fail(i, status.ErrBadHTTPVersion)
			}
		}
	}

	p.state = eVersion
	return i

versionCR:
	if i == len(data) {
		p.state = eVersionCR
		return i
	}

	if data[i] != '\n' {
		return p.fail(i, status.ErrBadLineEnding)
	}

	sink.OnHTTPVersion(data[p.mark:p.tokenEnd])
	i++
	// fallthrough to headerStart

headerStart:
	if i == len(data) {
		p.state = eHeaderStart
		return i
	}

	switch char := data[i]; {
	case char == '\r':
		i++
		goto headersDoneCR
	case char == '\n':
		return p.fail(i, status.ErrBadLineEnding)
	case !isTokenChar(char):
		// also rejects obsolete line folding and empty names
		return p.fail(i, status.ErrBadHeaderName)
	}

	p.mark = i
	i++
	// fallthrough to headerName

headerName:
	for ; i < len(data); i++ {
		if char := data[i]; char == ':' {
			p.nameStart, p.nameEnd = p.mark, i
			i++
			goto headerOWS
		} else if !isTokenChar(char) {
			return p.fail(i, status.ErrBadHeaderName)
		}
	}

	p.state = eHeaderName
	return i

headerOWS:
	for ; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t':
		default:
			p.mark = i
			goto headerValue
		}
	}

	p.state = eHeaderOWS
	return i

headerValue:
	for ; i < len(data); i++ {
		switch char := data[i]; char {
		case '\r':
			p.tokenEnd = i
			i++
			goto headerValueCR
		case '\n':
			return p.fail(i, status.ErrBadLineEnding)
		default:
			if isProhibitedValueChar(char) {
				return p.fail(i, status.ErrBadHeaderValue)
			}
		}
	}

	p.state = eHeaderValue
	return i

headerValueCR:
	if i == len(data) {
		p.state = eHeaderValueCR
		return i
	}

	if data[i] != '\n' {
		return p.fail(i, status.ErrBadLineEnding)
	}

	sink.OnHeaderField(data[p.nameStart:p.nameEnd], data[p.mark:p.tokenEnd])
	i++
	goto headerStart

headersDoneCR:
	if i == len(data) {
		p.state = eHeadersDoneCR
		return i
	}

	if data[i] != '\n' {
		return p.fail(i, status.ErrBadLineEnding)
	}

	i++
	p.state = eFinished
	sink.OnHeadersDone(i, data[i:])

	return i
}

// fail moves the parser into the terminal error state. The byte at i is the offending one,
// so it isn't counted as consumed.
func (p *Parser[S]) fail(i int, err error) int {
	p.state = eError
	p.err = err
	return i
}
