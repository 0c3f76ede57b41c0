package server

import (
	"strconv"

	"github.com/indigo-web/reqhead/status"
)

const defaultProtocol = "HTTP/1.1"

// Response is what a handler answers with. A zero Code means status.OK, an empty ContentType
// means text/plain.
type Response struct {
	Code        status.Code
	ContentType string
	Body        []byte
}

// Respond is a shortcut for a plain-text response.
func Respond(code status.Code, body string) Response {
	return Response{
		Code: code,
		Body: []byte(body),
	}
}

// errorResponse describes a failure, which always closes the connection.
func errorResponse(err error) Response {
	return Respond(status.CodeOf(err), err.Error())
}

// render appends the serialized response to buff. The status line uses the protocol of the
// request when it's one we can answer with, HTTP/1.1 otherwise.
func (r Response) render(buff []byte, protocol string, keepAlive bool) []byte {
	code := r.Code
	if code == 0 {
		code = status.OK
	}

	switch protocol {
	case "HTTP/1.0", "HTTP/1.1":
	default:
		protocol = defaultProtocol
	}

	buff = append(buff, protocol...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(code), 10)
	buff = append(buff, ' ')
	buff = append(buff, status.Text(code)...)
	buff = append(buff, "\r\n"...)

	contentType := r.ContentType
	if len(contentType) == 0 {
		contentType = "text/plain"
	}

	buff = appendHeader(buff, "Content-Type", contentType)
	buff = append(buff, "Content-Length: "...)
	buff = strconv.AppendInt(buff, int64(len(r.Body)), 10)
	buff = append(buff, "\r\n"...)

	switch {
	case !keepAlive:
		buff = appendHeader(buff, "Connection", "close")
	case protocol == "HTTP/1.0":
		buff = appendHeader(buff, "Connection", "keep-alive")
	}

	buff = append(buff, "\r\n"...)
	return append(buff, r.Body...)
}

// renderContinue appends the interim response to an Expect: 100-continue request.
func renderContinue(buff []byte) []byte {
	buff = append(buff, defaultProtocol+" 100 "...)
	buff = append(buff, status.Text(status.Continue)...)
	return append(buff, "\r\n\r\n"...)
}

func appendHeader(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, ": "...)
	buff = append(buff, value...)
	return append(buff, "\r\n"...)
}
