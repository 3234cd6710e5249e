package playwright

import (
	"context"
	"encoding/json"

	"github.com/oakline-labs/playwright-go/perrors"
)

// Worker is a dedicated or shared web worker spawned by a Page.
type Worker struct {
	Handle
}

// URL returns the worker's script URL from its initializer.
func (w *Worker) URL() (string, error) {
	return stringInitField(w.Handle, "url")
}

// Request is an outgoing network request observed by a Page or
// BrowserContext.
type Request struct {
	Handle
}

// URL returns the request's URL from its initializer.
func (r *Request) URL() (string, error) { return stringInitField(r.Handle, "url") }

// Method returns the request's HTTP method from its initializer.
func (r *Request) Method() (string, error) { return stringInitField(r.Handle, "method") }

// Response is the network response to a Request.
type Response struct {
	Handle
}

// URL returns the response's URL from its initializer.
func (r *Response) URL() (string, error) { return stringInitField(r.Handle, "url") }

// Status returns the response's HTTP status code from its initializer.
func (r *Response) Status() (int, error) {
	obj, err := r.upgrade()
	if err != nil {
		return 0, err
	}
	var init struct {
		Status int `json:"status"`
	}
	if len(obj.Initializer()) > 0 {
		if err := json.Unmarshal(obj.Initializer(), &init); err != nil {
			return 0, &perrors.Serde{Cause: err}
		}
	}
	return init.Status, nil
}

// Route lets a handler intercept, fulfill, or continue a Request.
type Route struct {
	Handle
}

// Continue resumes the intercepted request unmodified. No optional
// parameters in this reduced surface, so it is a direct call.
func (rt *Route) Continue(ctx context.Context) error {
	_, err := rt.send(ctx, "continue", nil)
	return err
}

// FulfillOptions collects Route.Fulfill's optional parameters.
type FulfillOptions struct {
	Status  int               `json:"status,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

// FulfillBuilder accumulates FulfillOptions.
type FulfillBuilder struct {
	route *Route
	opts  FulfillOptions
}

// FulfillBuilder starts a new fulfill configuration.
func (rt *Route) FulfillBuilder() *FulfillBuilder { return &FulfillBuilder{route: rt} }

func (b *FulfillBuilder) Status(v int) *FulfillBuilder                { b.opts.Status = v; return b }
func (b *FulfillBuilder) Headers(v map[string]string) *FulfillBuilder { b.opts.Headers = v; return b }
func (b *FulfillBuilder) Body(v string) *FulfillBuilder               { b.opts.Body = v; return b }

// Fulfill sends the accumulated response to satisfy the intercepted
// request.
func (b *FulfillBuilder) Fulfill(ctx context.Context) error {
	_, err := b.route.send(ctx, "fulfill", b.opts)
	return err
}

// ConsoleMessage is one console.log-family call observed on a Page.
type ConsoleMessage struct {
	Handle
}

// Text returns the message text from its initializer.
func (c *ConsoleMessage) Text() (string, error) { return stringInitField(c.Handle, "text") }

// Dialog is a pending alert/confirm/prompt/beforeunload dialog.
type Dialog struct {
	Handle
}

// Accept accepts the dialog, optionally supplying promptText.
func (d *Dialog) Accept(ctx context.Context, promptText string) error {
	params := struct {
		PromptText string `json:"promptText,omitempty"`
	}{PromptText: promptText}
	_, err := d.send(ctx, "accept", params)
	return err
}

// Dismiss dismisses the dialog.
func (d *Dialog) Dismiss(ctx context.Context) error {
	_, err := d.send(ctx, "dismiss", nil)
	return err
}

// Download represents a completed or in-progress browser download.
type Download struct {
	Handle
}

// URL returns the download's source URL from its initializer.
func (d *Download) URL() (string, error) { return stringInitField(d.Handle, "url") }

// SaveAs saves the downloaded file to path.
func (d *Download) SaveAs(ctx context.Context, path string) error {
	params := struct {
		Path string `json:"path"`
	}{Path: path}
	_, err := d.send(ctx, "saveAs", params)
	return err
}

// Selectors registers custom selector engines shared across every
// BrowserType produced by a Playwright root.
type Selectors struct {
	Handle
}

// Register installs a custom selector engine under name.
func (s *Selectors) Register(ctx context.Context, name, script string) error {
	params := struct {
		Name   string `json:"name"`
		Script string `json:"script"`
	}{Name: name, Script: script}
	_, err := s.send(ctx, "register", params)
	return err
}

// BindingCall represents one invocation of a function previously exposed
// into the page via Page.ExposeFunction.
type BindingCall struct {
	Handle
}

// Stream is a readable byte stream backing a Download or similar resource.
type Stream struct {
	Handle
}

// CDPSession is a raw Chrome DevTools Protocol session.
type CDPSession struct {
	Handle
}

// Send issues a raw CDP command and returns its result.
func (s *CDPSession) Send(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	wire := struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params,omitempty"`
	}{Method: method, Params: params}
	return s.Handle.send(ctx, "send", wire)
}

// Video is a recorded video of a Page's session.
type Video struct {
	Handle
}

// Path returns the filesystem path the video will be saved to.
func (v *Video) Path(ctx context.Context) (string, error) {
	raw, err := v.send(ctx, "path", nil)
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

// Accessibility snapshots the accessibility tree of a Page.
type Accessibility struct {
	Handle
}

// Snapshot returns the accessibility tree rooted at the page.
func (a *Accessibility) Snapshot(ctx context.Context) (json.RawMessage, error) {
	raw, err := a.send(ctx, "accessibilitySnapshot", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Root json.RawMessage `json:"rootAXNode"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return res.Root, nil
}

// stringInitField is a helper for the many leaf objects whose only
// interesting state is one string field in their initializer payload.
func stringInitField(h Handle, field string) (string, error) {
	obj, err := h.upgrade()
	if err != nil {
		return "", err
	}
	if len(obj.Initializer()) == 0 {
		return "", nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(obj.Initializer(), &m); err != nil {
		return "", &perrors.Serde{Cause: err}
	}
	raw, ok := m[field]
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &perrors.Serde{Cause: err}
	}
	return s, nil
}
