package reqhead

type parserState uint8

const (
	eStart parserState = iota + 1
	eMethod
	ePath
	eQuery
	eFragment
	eVersion
	eVersionCR
	eHeaderStart
	eHeaderName
	eHeaderOWS
	eHeaderValue
	eHeaderValueCR
	eHeadersDoneCR
	eFinished
	eError
)

// State is a coarse view of where the parser currently is. It's informational only: the
// parser keeps more detailed states internally.
type State uint8

const (
	Start State = iota
	Method
	RequestURI
	HTTPVersion
	HeaderName
	HeaderValue
	HeaderLineEnd
	HeadersDone
	Finished
	Error
)

func (s State) String() string {
	switch s {
	case Start:
		return "Start"
	case Method:
		return "Method"
	case RequestURI:
		return "RequestURI"
	case HTTPVersion:
		return "HTTPVersion"
	case HeaderName:
		return "HeaderName"
	case HeaderValue:
		return "HeaderValue"
	case HeaderLineEnd:
		return "HeaderLineEnd"
	case HeadersDone:
		return "HeadersDone"
	case Finished:
		return "Finished"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

func (p parserState) public() State {
	switch p {
	case eStart:
		return Start
	case eMethod:
		return Method
	case ePath, eQuery, eFragment:
		return RequestURI
	case eVersion, eVersionCR:
		return HTTPVersion
	case eHeaderStart, eHeaderName:
		return HeaderName
	case eHeaderOWS, eHeaderValue:
		return HeaderValue
	case eHeaderValueCR:
		return HeaderLineEnd
	case eHeadersDoneCR:
		return HeadersDone
	case eFinished:
		return Finished
	case eError:
		return Error
	default:
		return Start
	}
}
