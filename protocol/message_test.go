package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFramingScenario exercises the concrete end-to-end scenario from spec
// §8.1: encoding the literal request and decoding it back yields an
// identical request.
func TestFramingScenario(t *testing.T) {
	req := Request{ID: 1, GUID: "Playwright", Method: "ping", Params: json.RawMessage(`{}`)}
	data, err := EncodeRequest(req)
	require.NoError(t, err)

	var roundTripped Request
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	require.Equal(t, req, roundTripped)
}

func TestDecodeIncomingResponse(t *testing.T) {
	in, err := DecodeIncoming([]byte(`{"id":7,"result":{"ok":true}}`))
	require.NoError(t, err)
	require.Equal(t, KindResponse, in.Kind)
	require.Equal(t, uint32(7), in.ID)
	require.Nil(t, in.Err)
	require.JSONEq(t, `{"ok":true}`, string(in.Result))
}

func TestDecodeIncomingErrorResponse(t *testing.T) {
	raw := []byte(`{"id":7,"error":{"error":{"name":"TargetClosed","message":"Target page has been closed","stack":""}}}`)
	in, err := DecodeIncoming(raw)
	require.NoError(t, err)
	require.Equal(t, KindResponse, in.Kind)
	require.NotNil(t, in.Err)
	require.Equal(t, "TargetClosed", in.Err.Error.Name)
	require.Equal(t, "Target page has been closed", in.Err.Error.Message)
}

func TestDecodeIncomingRejectsBothResultAndError(t *testing.T) {
	raw := []byte(`{"id":1,"result":{},"error":{"error":{"name":"x","message":"y","stack":""}}}`)
	_, err := DecodeIncoming(raw)
	require.Error(t, err)
}

func TestDecodeIncomingCreate(t *testing.T) {
	raw := []byte(`{"guid":"Playwright","method":"__create__","params":{"type":"BrowserType","guid":"bt1","initializer":{"name":"chromium"}}}`)
	in, err := DecodeIncoming(raw)
	require.NoError(t, err)
	require.Equal(t, KindCreate, in.Kind)
	require.Equal(t, "Playwright", in.GUID)
	require.Equal(t, "BrowserType", in.Create.Type)
	require.Equal(t, "bt1", in.Create.GUID)
}

func TestDecodeIncomingDispose(t *testing.T) {
	raw := []byte(`{"guid":"page1","method":"__dispose__","params":{}}`)
	in, err := DecodeIncoming(raw)
	require.NoError(t, err)
	require.Equal(t, KindDispose, in.Kind)
	require.Equal(t, "page1", in.GUID)
}

func TestDecodeIncomingEvent(t *testing.T) {
	raw := []byte(`{"guid":"page1","method":"load","params":{}}`)
	in, err := DecodeIncoming(raw)
	require.NoError(t, err)
	require.Equal(t, KindEvent, in.Kind)
	require.Equal(t, "load", in.Method)
}
