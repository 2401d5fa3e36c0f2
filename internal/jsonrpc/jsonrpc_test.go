package jsonrpc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/homerpc/api"
)

func TestCodeMessages(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeParseError, "Parse error"},
		{CodeInvalidRequest, "Invalid Request"},
		{CodeMethodNotFound, "Invalid Method"},
		{CodeInvalidParams, "Invalid Parameters of request"},
		{CodeInternalError, "Internal error"},
		{CodeAPIError, "Api logic error"},
		{CodeUnhandled, "unhandled error"},
		{Code(42), "unhandled error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.Message(), "code %d", tt.code)
	}
}

func TestNewErrorCollapsesUnknownCodes(t *testing.T) {
	e := NewError(Code(7), "boom")
	assert.Equal(t, int(CodeUnhandled), e.Code)
	assert.Equal(t, "unhandled error", e.Message)
	assert.Equal(t, "boom", e.Data)

	e = NewError(CodeAPIError, "room missing")
	assert.Equal(t, 1, e.Code)
	assert.Equal(t, "Api logic error", e.Message)
}

func TestReplyWireShape(t *testing.T) {
	ok, err := json.Marshal(NewReply("1", "addRoom: success"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"1","result":{"data":"addRoom: success"}}`, string(ok))

	failed, err := json.Marshal(Render("2", CodeAPIError, "delRoom error: x"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":"2","error":{"code":1,"message":"Api logic error","data":"delRoom error: x"}}`,
		string(failed))

	batch, err := json.Marshal(NewBatchError(NewError(CodeParseError, "eof")))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error","data":"eof"}}`,
		string(batch))
}

func TestReplyAccessors(t *testing.T) {
	r := Render("7", CodeOK, "done")
	assert.Equal(t, CodeOK, r.Code())
	assert.Equal(t, "7", r.RequestID())
	assert.Equal(t, "done", r.Text())

	r = NewBatchError(NewError(CodeInvalidRequest, "bad"))
	assert.Equal(t, CodeInvalidRequest, r.Code())
	assert.Empty(t, r.RequestID())
	assert.Equal(t, "bad", r.Text())
}

func TestRequestParams(t *testing.T) {
	req, err := NewRequest("a", "addRoom", map[string]string{"name": "library"})
	require.NoError(t, err)
	assert.Equal(t, Version, req.JSONRPC)

	var p struct {
		Name string `json:"name"`
	}
	require.NoError(t, req.DecodeParams(&p))
	assert.Equal(t, "library", p.Name)

	bare, err := NewRequest("b", "createReport", nil)
	require.NoError(t, err)
	assert.Nil(t, bare.Params)
	require.NoError(t, bare.DecodeParams(&p))
}

func TestQueueIsLIFO(t *testing.T) {
	var q Queue[string]
	q.Push([]string{"a", "b"})
	q.Push([]string{"c"})
	require.Equal(t, 3, q.Len())

	var got []string
	for {
		item, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, item)
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)
	assert.Zero(t, q.Len())
}

func TestQueueReset(t *testing.T) {
	var q Queue[int]
	q.Push([]int{1, 2, 3})
	q.Reset()
	assert.Zero(t, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)

	q.Push([]int{4})
	item, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 4, item)
}

func decode(t *testing.T, doc string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v
}

func TestValidatorAcceptsWellFormedBatches(t *testing.T) {
	v, err := NewValidator(api.Schema)
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{"empty batch", `[]`},
		{"addRoom", `[{"id":"1","jsonrpc":"2.0","method":"addRoom","params":{"name":"library"}}]`},
		{"createReport without params", `[{"id":"1","jsonrpc":"2.0","method":"createReport"}]`},
		{"deviceExecute", `[{"id":"1","jsonrpc":"2.0","method":"deviceExecute",
			"params":{"room":"living","device":"Thermometer 1","command":"switch","data":["on"]}}]`},
		{"provider report", `[{"id":"1","jsonrpc":"2.0","method":"createProviderReport",
			"params":{"provider":{"schema":{"living":["Smart Socket 2"]}}}}]`},
		{"unknown method", `[{"id":"1","jsonrpc":"2.0","method":"dance","params":{}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := decode(t, tt.doc)
			assert.True(t, v.IsValid(value))
			assert.Empty(t, v.Validate(value))
		})
	}
}

func TestValidatorRejectsMalformedBatches(t *testing.T) {
	v, err := NewValidator(api.Schema)
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{"not an array", `{"id":"1","jsonrpc":"2.0","method":"createReport"}`},
		{"missing id", `[{"jsonrpc":"2.0","method":"createReport"}]`},
		{"numeric id", `[{"id":1,"jsonrpc":"2.0","method":"createReport"}]`},
		{"wrong version", `[{"id":"1","jsonrpc":"1.0","method":"createReport"}]`},
		{"addRoom without name", `[{"id":"1","jsonrpc":"2.0","method":"addRoom","params":{}}]`},
		{"deviceExecute without device", `[{"id":"1","jsonrpc":"2.0","method":"deviceExecute",
			"params":{"room":"living","command":"report"}}]`},
		{"provider report without provider", `[{"id":"1","jsonrpc":"2.0","method":"createProviderReport","params":{}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := decode(t, tt.doc)
			assert.False(t, v.IsValid(value))
			violations := v.Validate(value)
			require.NotEmpty(t, violations)
			joined := JoinViolations(violations)
			assert.True(t, strings.HasPrefix(joined, "Error: "))
			assert.Contains(t, joined, "Location: ")
		})
	}
}

func TestJoinViolations(t *testing.T) {
	got := JoinViolations([]Violation{
		{Message: "id is required", Path: "0"},
		{Message: "Invalid type", Path: "1.id"},
	})
	assert.Equal(t,
		"Error: id is required\n\n Location: 0\n\n;Error: Invalid type\n\n Location: 1.id\n\n",
		got)
	assert.Empty(t, JoinViolations(nil))
}

func TestNewValidatorRejectsBrokenSchema(t *testing.T) {
	_, err := NewValidator([]byte(`{"type": 12}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = NewValidator([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestLoadValidatorMissingFile(t *testing.T) {
	_, err := LoadValidator(t.TempDir() + "/missing.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSchema)
}
