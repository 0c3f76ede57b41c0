// Package eventlog provides a sink recording every event it receives, so tests can compare
// the exact sequence produced by the parser.
package eventlog

import "fmt"

type Kind uint8

const (
	Method Kind = iota + 1
	RequestURI
	Path
	QueryString
	Fragment
	HTTPVersion
	HeaderField
	HeadersDone
)

func (k Kind) String() string {
	switch k {
	case Method:
		return "method"
	case RequestURI:
		return "request_uri"
	case Path:
		return "path"
	case QueryString:
		return "query"
	case Fragment:
		return "fragment"
	case HTTPVersion:
		return "version"
	case HeaderField:
		return "header"
	case HeadersDone:
		return "headers_done"
	default:
		return "unknown"
	}
}

// Event is a copied-out token. Name is used by header fields only, Offset by headers-done
// only, where Value holds the remainder of the buffer.
type Event struct {
	Kind   Kind
	Name   string
	Value  string
	Offset int
}

func (e Event) String() string {
	switch e.Kind {
	case HeaderField:
		return fmt.Sprintf("%s(%q: %q)", e.Kind, e.Name, e.Value)
	case HeadersDone:
		return fmt.Sprintf("%s(%d, %q)", e.Kind, e.Offset, e.Value)
	default:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Value)
	}
}

// Log implements reqhead.Sink.
type Log struct {
	Events []Event
}

func New() *Log {
	return new(Log)
}

func (l *Log) OnMethod(method []byte) {
	l.push(Event{Kind: Method, Value: string(method)})
}

func (l *Log) OnRequestURI(uri []byte) {
	l.push(Event{Kind: RequestURI, Value: string(uri)})
}

func (l *Log) OnPath(path []byte) {
	l.push(Event{Kind: Path, Value: string(path)})
}

func (l *Log) OnQueryString(query []byte) {
	l.push(Event{Kind: QueryString, Value: string(query)})
}

func (l *Log) OnFragment(fragment []byte) {
	l.push(Event{Kind: Fragment, Value: string(fragment)})
}

func (l *Log) OnHTTPVersion(version []byte) {
	l.push(Event{Kind: HTTPVersion, Value: string(version)})
}

func (l *Log) OnHeaderField(name, value []byte) {
	l.push(Event{Kind: HeaderField, Name: string(name), Value: string(value)})
}

func (l *Log) OnHeadersDone(bodyStart int, rest []byte) {
	l.push(Event{Kind: HeadersDone, Offset: bodyStart, Value: string(rest)})
}

// Headers returns only the header field events.
func (l *Log) Headers() (fields []Event) {
	for _, event := range l.Events {
		if event.Kind == HeaderField {
			fields = append(fields, event)
		}
	}

	return fields
}

func (l *Log) Clear() {
	l.Events = l.Events[:0]
}

func (l *Log) push(event Event) {
	l.Events = append(l.Events, event)
}
