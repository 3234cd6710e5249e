package playwright

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/oakline-labs/playwright-go/object"
	"github.com/oakline-labs/playwright-go/perrors"
	"github.com/oakline-labs/playwright-go/rpc"
)

// Page owns a main Frame, any child Frames, and Workers; it is the primary
// surface for navigation, input, and content extraction.
type Page struct {
	Handle
}

// GotoOptions collects Page.Goto's optional parameters.
type GotoOptions struct {
	Timeout   float64 `json:"timeout,omitempty"`
	WaitUntil string  `json:"waitUntil,omitempty"`
	Referer   string  `json:"referer,omitempty"`
}

// GotoBuilder accumulates GotoOptions before navigating.
type GotoBuilder struct {
	page *Page
	url  string
	opts GotoOptions
}

// GotoBuilder starts a navigation to url.
func (p *Page) GotoBuilder(url string) *GotoBuilder {
	return &GotoBuilder{page: p, url: url}
}

func (b *GotoBuilder) Timeout(ms float64) *GotoBuilder { b.opts.Timeout = ms; return b }
func (b *GotoBuilder) WaitUntil(v string) *GotoBuilder { b.opts.WaitUntil = v; return b }
func (b *GotoBuilder) Referer(v string) *GotoBuilder   { b.opts.Referer = v; return b }

// Goto sends the navigation request, flattening url alongside the
// accumulated options.
func (b *GotoBuilder) Goto(ctx context.Context) (*Response, error) {
	params := struct {
		GotoOptions
		URL string `json:"url"`
	}{GotoOptions: b.opts, URL: b.url}
	raw, err := b.page.send(ctx, "goto", params)
	if err != nil {
		return nil, err
	}
	var res struct {
		Response struct{ GUID string } `json:"response"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	if res.Response.GUID == "" {
		return nil, nil
	}
	return &Response{Handle: newHandle(b.page.registry, res.Response.GUID)}, nil
}

// ScreenshotOptions collects Page.Screenshot's optional parameters.
type ScreenshotOptions struct {
	Quality  int    `json:"quality,omitempty"`
	FullPage bool   `json:"fullPage,omitempty"`
	Type     string `json:"type,omitempty"`
	Path     string `json:"path,omitempty"`
}

// ScreenshotBuilder accumulates ScreenshotOptions before a terminal
// Screenshot call.
type ScreenshotBuilder struct {
	page *Page
	opts ScreenshotOptions
}

// ScreenshotBuilder starts a new screenshot configuration.
func (p *Page) ScreenshotBuilder() *ScreenshotBuilder {
	return &ScreenshotBuilder{page: p}
}

func (b *ScreenshotBuilder) Quality(v int) *ScreenshotBuilder   { b.opts.Quality = v; return b }
func (b *ScreenshotBuilder) FullPage(v bool) *ScreenshotBuilder { b.opts.FullPage = v; return b }
func (b *ScreenshotBuilder) Type(v string) *ScreenshotBuilder   { b.opts.Type = v; return b }
func (b *ScreenshotBuilder) Path(v string) *ScreenshotBuilder   { b.opts.Path = v; return b }

// Screenshot sends the accumulated options and returns the raw image
// bytes.
func (b *ScreenshotBuilder) Screenshot(ctx context.Context) ([]byte, error) {
	raw, err := b.page.send(ctx, "screenshot", b.opts)
	if err != nil {
		return nil, err
	}
	var res struct {
		Binary []byte `json:"binary"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return res.Binary, nil
}

// MainFrame returns the Page's root Frame from its initializer.
func (p *Page) MainFrame() (*Frame, error) {
	obj, err := p.upgrade()
	if err != nil {
		return nil, err
	}
	var init struct {
		MainFrame struct{ GUID string } `json:"mainFrame"`
	}
	if len(obj.Initializer()) > 0 {
		if err := json.Unmarshal(obj.Initializer(), &init); err != nil {
			return nil, &perrors.Serde{Cause: err}
		}
	}
	if init.MainFrame.GUID == "" {
		return nil, &perrors.ObjectGone{GUID: p.GUID()}
	}
	return &Frame{Handle: newHandle(p.registry, init.MainFrame.GUID)}, nil
}

// Close closes the page. Idempotent.
func (p *Page) Close(ctx context.Context) error {
	_, err := p.send(ctx, "close", nil)
	if err == nil {
		return nil
	}
	var gone *perrors.ObjectGone
	if errors.As(err, &gone) {
		return nil
	}
	return err
}

// OnClose subscribes to the page's "close" event.
func (p *Page) OnClose(cb func()) (object.Subscription, error) {
	return p.on("close", func(json.RawMessage) { cb() })
}

// WaitForEvent waits for the named event, optionally constrained by
// predicate, up to timeoutMS (0 disables the deadline).
func (p *Page) WaitForEvent(ctx context.Context, method string, predicate func(json.RawMessage) bool, timeoutMS float64) (json.RawMessage, error) {
	obj, err := p.upgrade()
	if err != nil {
		return nil, err
	}
	return rpc.ExpectEvent(ctx, obj, method, predicate, msToDuration(timeoutMS))
}
