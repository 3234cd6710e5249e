package playwright

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/oakline-labs/playwright-go/perrors"
)

// JSHandle is a handle to a live remote JavaScript value. It must be
// disposed explicitly once the caller no longer needs it, since the driver
// otherwise keeps the underlying value alive indefinitely.
type JSHandle struct {
	Handle
}

// Evaluate runs expression with this handle bound as its argument.
func (j *JSHandle) Evaluate(ctx context.Context, expression string) (json.RawMessage, error) {
	params := struct {
		Expression string `json:"expression"`
	}{Expression: expression}
	raw, err := j.send(ctx, "evaluateExpression", params)
	if err != nil {
		return nil, err
	}
	var res struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return res.Value, nil
}

// Dispose releases the remote value. Idempotent: disposing an already-gone
// handle succeeds.
func (j *JSHandle) Dispose(ctx context.Context) error {
	_, err := j.send(ctx, "dispose", nil)
	var gone *perrors.ObjectGone
	if errors.As(err, &gone) {
		return nil
	}
	return err
}

// ElementHandle is a JSHandle known to wrap a DOM element, adding
// element-specific operations.
type ElementHandle struct {
	JSHandle
}

// Click clicks the element. No optional parameters in this reduced
// surface, so it is a direct call.
func (e *ElementHandle) Click(ctx context.Context) error {
	_, err := e.send(ctx, "click", nil)
	return err
}

// TextContent returns the element's text content.
func (e *ElementHandle) TextContent(ctx context.Context) (string, error) {
	raw, err := e.send(ctx, "textContent", nil)
	if err != nil {
		return "", err
	}
	var res struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", &perrors.Serde{Cause: err}
	}
	return res.Value, nil
}
