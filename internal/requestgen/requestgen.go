package requestgen

import (
	"strconv"
	"strings"
)

type Header struct {
	Name, Value string
}

// Headers returns n headers, the last of which is always Host.
func Headers(n int) []Header {
	hdrs := make([]Header, 0, n)

	for i := 0; i < n-1; i++ {
		hdrs = append(hdrs, Header{
			Name:  "some-random-header-name-nobody-cares-about" + strconv.Itoa(i),
			Value: strings.Repeat("b", 100),
		})
	}

	return append(hdrs, Header{Name: "Host", Value: "localhost"})
}

func HeadersBlock(hdrs []Header) (buff []byte) {
	for _, header := range hdrs {
		buff = append(buff, header.Name+": "+header.Value+"\r\n"...)
	}

	return buff
}

// Generate returns a GET request head with the uri appended to the root path.
func Generate(uri string, hdrs []Header) (request []byte) {
	request = append(request, "GET /"+uri+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(hdrs)...)

	return append(request, '\r', '\n')
}
