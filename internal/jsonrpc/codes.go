package jsonrpc

// Code is a reply code. The values are part of the wire contract.
type Code int

// Reply codes.
const (
	CodeOK             Code = 0
	CodeParseError     Code = -32700
	CodeInvalidRequest Code = -32600
	CodeMethodNotFound Code = -32601
	CodeInvalidParams  Code = -32602
	CodeInternalError  Code = -32603
	CodeAPIError       Code = 1
	CodeUnhandled      Code = 804
)

// Message returns the fixed human-readable message for c.
// Unknown codes read as the catch-all message.
func (c Code) Message() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeParseError:
		return "Parse error"
	case CodeInvalidRequest:
		return "Invalid Request"
	case CodeMethodNotFound:
		return "Invalid Method"
	case CodeInvalidParams:
		return "Invalid Parameters of request"
	case CodeInternalError:
		return "Internal error"
	case CodeAPIError:
		return "Api logic error"
	default:
		return "unhandled error"
	}
}

// Known reports whether c is one of the codes above.
func (c Code) Known() bool {
	switch c {
	case CodeOK, CodeParseError, CodeInvalidRequest, CodeMethodNotFound,
		CodeInvalidParams, CodeInternalError, CodeAPIError, CodeUnhandled:
		return true
	}
	return false
}

// NewError maps a code and diagnostic data to an error object.
// Codes outside the taxonomy collapse to CodeUnhandled.
func NewError(code Code, data string) *Error {
	if !code.Known() || code == CodeOK {
		code = CodeUnhandled
	}
	return &Error{
		Code:    int(code),
		Message: code.Message(),
		Data:    data,
	}
}
