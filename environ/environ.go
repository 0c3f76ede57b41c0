// Package environ provides a reqhead.Sink building the CGI/WSGI-style environment of a request:
// a flat mapping of well-known keys, such as REQUEST_METHOD or PATH_INFO, to the tokens of the
// request head.
package environ

import (
	"bytes"

	"github.com/indigo-web/reqhead"
	"github.com/indigo-web/utils/strcomp"
	jsoniter "github.com/json-iterator/go"
)

const (
	RequestMethod  = "REQUEST_METHOD"
	RequestURI     = "REQUEST_URI"
	PathInfo       = "PATH_INFO"
	QueryString    = "QUERY_STRING"
	Fragment       = "FRAGMENT"
	HTTPVersion    = "HTTP_VERSION"
	RequestBody    = "REQUEST_BODY"
	ScriptName     = "SCRIPT_NAME"
	Parameters     = "PARAMETERS"
	ServerProtocol = "SERVER_PROTOCOL"
	ContentType    = "CONTENT_TYPE"
	ContentLength  = "CONTENT_LENGTH"
	RemoteAddr     = "REMOTE_ADDR"
	ServerName     = "SERVER_NAME"
	ServerPort     = "SERVER_PORT"
	HeaderPrefix   = "HTTP_"
)

var _ reqhead.Sink = new(Environ)

// Environ is filled by the parser's events. Every value is copied out of the parser's buffer,
// so the environ stays valid after the buffer is reused. Repeated keys are overridden: the last
// value wins. Raw header fields are kept aside in arrival order, see Header and Fields.
type Environ struct {
	storage
	fields    []Pair
	bodyStart int
	cgi       bool
	keyBuff   []byte
}

// New returns an environ with the plain naming: header fields are stored as HTTP_<name> with
// the name exactly as received, and the version as HTTP_VERSION.
func New() *Environ {
	return new(Environ)
}

// NewCGI returns an environ with the conventional CGI naming. Header names are upper-cased
// with dashes replaced by underscores, Content-Type and Content-Length go without the prefix,
// the version is stored as SERVER_PROTOCOL. Path parameters (the part of the path after a
// semicolon) are split off into PARAMETERS, and SCRIPT_NAME, QUERY_STRING, FRAGMENT and
// PARAMETERS are always present, even if empty.
func NewCGI() *Environ {
	return &Environ{cgi: true}
}

func (e *Environ) OnMethod(method []byte) {
	e.Set(RequestMethod, string(method))
}

func (e *Environ) OnRequestURI(uri []byte) {
	e.Set(RequestURI, string(uri))

	if e.cgi {
		e.setDefault(QueryString, "")
		e.setDefault(Fragment, "")
	}
}

func (e *Environ) OnPath(path []byte) {
	if !e.cgi {
		e.Set(PathInfo, string(path))
		return
	}

	var params []byte
	if semicolon := bytes.IndexByte(path, ';'); semicolon != -1 {
		path, params = path[:semicolon], path[semicolon+1:]
	}

	e.Set(ScriptName, "")
	e.Set(PathInfo, string(path))
	e.Set(Parameters, string(params))
}

func (e *Environ) OnQueryString(query []byte) {
	e.Set(QueryString, string(query))
}

func (e *Environ) OnFragment(fragment []byte) {
	e.Set(Fragment, string(fragment))
}

func (e *Environ) OnHTTPVersion(version []byte) {
	if e.cgi {
		e.Set(ServerProtocol, string(version))
	} else {
		e.Set(HTTPVersion, string(version))
	}
}

func (e *Environ) OnHeaderField(name, value []byte) {
	field := Pair{Key: string(name), Value: string(value)}
	e.fields = append(e.fields, field)
	e.Set(e.headerKey(name), field.Value)
}

func (e *Environ) OnHeadersDone(bodyStart int, rest []byte) {
	e.bodyStart = bodyStart
	e.Set(RequestBody, string(rest))
}

func (e *Environ) headerKey(name []byte) string {
	if !e.cgi {
		return HeaderPrefix + string(name)
	}

	e.keyBuff = append(e.keyBuff[:0], HeaderPrefix...)
	for _, c := range name {
		switch {
		case c == '-':
			c = '_'
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		}

		e.keyBuff = append(e.keyBuff, c)
	}

	key := e.keyBuff
	switch unprefixed := string(key[len(HeaderPrefix):]); unprefixed {
	case ContentType, ContentLength:
		return unprefixed
	}

	return string(key)
}

func (e *Environ) Method() string {
	return e.Value(RequestMethod)
}

func (e *Environ) Path() string {
	return e.Value(PathInfo)
}

// Version returns the protocol version of the request, wherever it is stored in the current
// naming mode.
func (e *Environ) Version() string {
	if e.cgi {
		return e.Value(ServerProtocol)
	}

	return e.Value(HTTPVersion)
}

// Header looks up a raw header field by its name, case-insensitively. If the field was
// repeated, the last value is returned.
func (e *Environ) Header(name string) (value string, found bool) {
	for i := len(e.fields) - 1; i >= 0; i-- {
		if strcomp.EqualFold(e.fields[i].Key, name) {
			return e.fields[i].Value, true
		}
	}

	return "", false
}

// Fields returns the raw header fields in arrival order, repeated ones included.
func (e *Environ) Fields() []Pair {
	return e.fields
}

// BodyStart returns the offset of the first byte after the head, as reported by the parser.
// It's zero until the head is complete.
func (e *Environ) BodyStart() int {
	return e.bodyStart
}

// Clear removes all the entries, so the environ can be filled by the next request. The naming
// mode is kept.
func (e *Environ) Clear() {
	e.storage.clear()
	e.fields = e.fields[:0]
	e.bodyStart = 0
}

// MarshalJSON encodes the environ as a JSON object, keeping the insertion order of the keys.
func (e *Environ) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigFastest.BorrowStream(nil)
	defer jsoniter.ConfigFastest.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, pair := range e.pairs {
		if i > 0 {
			stream.WriteMore()
		}

		stream.WriteObjectField(pair.Key)
		stream.WriteString(pair.Value)
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}
