package status

import "errors"

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf returns the status code carried by err, falling back to InternalServerError for errors
// that aren't HTTPError.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

// Malformed request heads. Every one of them is terminal for the parser.
var (
	ErrBadMethod            = NewError(BadRequest, "malformed request method")
	ErrBadRequestURI        = NewError(BadRequest, "malformed request URI")
	ErrBadHTTPVersion       = NewError(HTTPVersionNotSupported, "malformed or unsupported HTTP version")
	ErrBadHeaderName        = NewError(BadRequest, "malformed header field name")
	ErrBadHeaderValue       = NewError(BadRequest, "malformed header field value")
	ErrBadLineEnding        = NewError(BadRequest, "line must be terminated by CRLF")
	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "too large request head")
)
