// Package protocol defines the wire message schema exchanged with the
// driver and the recursive value codec that rewrites GUID references
// between JSON and Remote Object links.
package protocol

import (
	"encoding/json"

	"github.com/oakline-labs/playwright-go/perrors"
)

// Request is an outgoing message: a method call scoped to a remote object.
type Request struct {
	ID     uint32          `json:"id"`
	GUID   string          `json:"guid"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// rawIncoming is the superset of fields that can appear on any incoming
// message; which subset is populated determines its Kind.
type rawIncoming struct {
	ID     *uint32         `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorPayload   `json:"error,omitempty"`
	GUID   string          `json:"guid,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// ErrorPayload mirrors the driver's nested error shape:
// { "error": { "name", "message", "stack" } }.
type ErrorPayload struct {
	Error struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Stack   string `json:"stack"`
	} `json:"error"`
}

// Kind classifies a decoded Incoming message.
type Kind int

const (
	// KindResponse is a reply to a Request previously sent by this client.
	KindResponse Kind = iota
	// KindEvent is a driver-initiated event on an existing remote object.
	KindEvent
	// KindCreate is a Create notification: an event on the parent guid
	// with method "__create__".
	KindCreate
	// KindDispose is a Dispose notification: an event on the object's own
	// guid with method "__dispose__".
	KindDispose
)

// CreateParams is the params payload of a Create notification.
type CreateParams struct {
	Type        string          `json:"type"`
	GUID        string          `json:"guid"`
	Initializer json.RawMessage `json:"initializer"`
}

const (
	methodCreate  = "__create__"
	methodDispose = "__dispose__"
)

// Incoming is a decoded message from the driver, classified into exactly
// one Kind. A Response carries exactly one of Result or Err (never both);
// an Event/Create/Dispose carries GUID, Method, and Params.
type Incoming struct {
	Kind   Kind
	ID     uint32
	Result json.RawMessage
	Err    *ErrorPayload

	GUID   string
	Method string
	Params json.RawMessage

	// Create is populated only when Kind == KindCreate.
	Create CreateParams
}

// EncodeRequest serializes a Request as-is; Params is already JSON and is
// not rewritten. EncodeValue performs the recursive Remote Object
// reference rewrite for callers that assemble params from live values.
func EncodeRequest(req Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return data, nil
}

// DecodeIncoming classifies and decodes one incoming driver message.
func DecodeIncoming(raw []byte) (Incoming, error) {
	var msg rawIncoming
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Incoming{}, &perrors.Serde{Cause: err, Raw: raw}
	}

	if msg.ID != nil {
		if msg.Result != nil && msg.Error != nil {
			return Incoming{}, &perrors.Serde{Cause: errBothResultAndError, Raw: raw}
		}
		return Incoming{Kind: KindResponse, ID: *msg.ID, Result: msg.Result, Err: msg.Error}, nil
	}

	switch msg.Method {
	case methodCreate:
		var cp CreateParams
		if len(msg.Params) > 0 {
			if err := json.Unmarshal(msg.Params, &cp); err != nil {
				return Incoming{}, &perrors.Serde{Cause: err, Raw: raw}
			}
		}
		return Incoming{Kind: KindCreate, GUID: msg.GUID, Method: msg.Method, Params: msg.Params, Create: cp}, nil
	case methodDispose:
		return Incoming{Kind: KindDispose, GUID: msg.GUID, Method: msg.Method, Params: msg.Params}, nil
	default:
		return Incoming{Kind: KindEvent, GUID: msg.GUID, Method: msg.Method, Params: msg.Params}, nil
	}
}

var errBothResultAndError = serdeErr("response carries both result and error")

type serdeErr string

func (e serdeErr) Error() string { return string(e) }
