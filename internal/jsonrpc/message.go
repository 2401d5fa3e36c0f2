package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol version carried by every request and reply.
const Version = "2.0"

// Request is one command of a batch.
//
// Params stays raw until the dispatcher decodes it for a specific method.
type Request struct {
	ID      string          `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewRequest builds a request with params marshalled to JSON.
// A nil params leaves the field out.
func NewRequest(id, method string, params any) (Request, error) {
	req := Request{ID: id, JSONRPC: Version, Method: method}
	if params == nil {
		return req, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return Request{}, fmt.Errorf("marshalling params for %s: %w", method, err)
	}
	req.Params = raw
	return req, nil
}

// DecodeParams unmarshals the request params into v.
// Missing params decode as an empty object.
func (r Request) DecodeParams(v any) error {
	if len(r.Params) == 0 || string(r.Params) == "null" {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(r.Params, v)
}

// Result is the payload of a success reply.
type Result struct {
	Data string `json:"data"`
}

// Error is the payload of an error reply.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Message, e.Code, e.Data)
}

// Reply answers exactly one request, or a whole batch when ID is nil.
type Reply struct {
	JSONRPC string  `json:"jsonrpc"`
	ID      *string `json:"id"`
	Result  *Result `json:"result,omitempty"`
	Error   *Error  `json:"error,omitempty"`
}

// NewReply builds a success reply.
func NewReply(id, data string) Reply {
	return Reply{JSONRPC: Version, ID: &id, Result: &Result{Data: data}}
}

// NewErrorReply builds an error reply for one request.
func NewErrorReply(id string, err *Error) Reply {
	return Reply{JSONRPC: Version, ID: &id, Error: err}
}

// NewBatchError builds the single reply sent when a batch is rejected
// before any command is queued.
func NewBatchError(err *Error) Reply {
	return Reply{JSONRPC: Version, Error: err}
}

// Render builds the reply for id from a dispatch outcome: CodeOK gives a
// success reply with data as result, any other code an error reply.
func Render(id string, code Code, data string) Reply {
	if code == CodeOK {
		return NewReply(id, data)
	}
	return NewErrorReply(id, NewError(code, data))
}

// Code returns the numeric code of the reply, 0 for success.
func (r Reply) Code() Code {
	if r.Error == nil {
		return CodeOK
	}
	return Code(r.Error.Code)
}

// RequestID returns the echoed id, or "" for batch-level replies.
func (r Reply) RequestID() string {
	if r.ID == nil {
		return ""
	}
	return *r.ID
}

// Text returns the result data or the error data.
func (r Reply) Text() string {
	switch {
	case r.Result != nil:
		return r.Result.Data
	case r.Error != nil:
		return r.Error.Data
	default:
		return ""
	}
}
