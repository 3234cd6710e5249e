package playwright

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/oakline-labs/playwright-go/perrors"
)

// Browser owns zero or more BrowserContexts and the child process or
// remote connection backing them.
type Browser struct {
	Handle
}

// NewContextOptions collects BrowserContext creation parameters; exposed
// only through NewContextBuilder since it has many optional fields.
type NewContextOptions struct {
	Viewport          *Viewport     `json:"viewport,omitempty"`
	UserAgent         string        `json:"userAgent,omitempty"`
	Locale            string        `json:"locale,omitempty"`
	TimezoneID        string        `json:"timezoneId,omitempty"`
	StorageState      *StorageState `json:"storageState,omitempty"`
	IgnoreHTTPSErrors bool          `json:"ignoreHTTPSErrors,omitempty"`
	Offline           bool          `json:"offline,omitempty"`
}

// Viewport is a page's initial viewport size.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewContextBuilder accumulates NewContextOptions before creating a
// BrowserContext.
type NewContextBuilder struct {
	browser *Browser
	opts    NewContextOptions
}

// NewContextBuilder starts a new BrowserContext configuration.
func (b *Browser) NewContextBuilder() *NewContextBuilder {
	return &NewContextBuilder{browser: b}
}

func (b *NewContextBuilder) Viewport(w, h int) *NewContextBuilder {
	b.opts.Viewport = &Viewport{Width: w, Height: h}
	return b
}
func (b *NewContextBuilder) UserAgent(v string) *NewContextBuilder { b.opts.UserAgent = v; return b }
func (b *NewContextBuilder) Locale(v string) *NewContextBuilder    { b.opts.Locale = v; return b }
func (b *NewContextBuilder) TimezoneID(v string) *NewContextBuilder {
	b.opts.TimezoneID = v
	return b
}
func (b *NewContextBuilder) StorageState(v StorageState) *NewContextBuilder {
	b.opts.StorageState = &v
	return b
}
func (b *NewContextBuilder) IgnoreHTTPSErrors(v bool) *NewContextBuilder {
	b.opts.IgnoreHTTPSErrors = v
	return b
}

// NewContext sends the accumulated options and returns the new
// BrowserContext.
func (b *NewContextBuilder) NewContext(ctx context.Context) (*BrowserContext, error) {
	raw, err := b.browser.send(ctx, "newContext", b.opts)
	if err != nil {
		return nil, err
	}
	var res struct {
		Context struct{ GUID string } `json:"context"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return &BrowserContext{Handle: newHandle(b.browser.registry, res.Context.GUID)}, nil
}

// NewPage is a convenience that creates a fresh BrowserContext and a Page
// within it in one call, mirroring the driver's own shorthand. It takes no
// optional parameters, so it is a direct call rather than a builder.
func (b *Browser) NewPage(ctx context.Context) (*Page, error) {
	bctx, err := b.NewContextBuilder().NewContext(ctx)
	if err != nil {
		return nil, err
	}
	return bctx.NewPage(ctx)
}

// Close terminates the browser and every BrowserContext it owns. Any
// driver-side error response (ErrorResponded) is swallowed rather than
// surfaced, whatever its name, as is ObjectGone, so closing an
// already-closed or disconnected Browser succeeds.
func (b *Browser) Close(ctx context.Context) error {
	_, err := b.send(ctx, "close", nil)
	if err == nil {
		return nil
	}
	var gone *perrors.ObjectGone
	if errors.As(err, &gone) {
		return nil
	}
	var responded *perrors.ErrorResponded
	if errors.As(err, &responded) {
		return nil
	}
	return err
}

// IsConnected reports whether the Browser's remote object is still live.
func (b *Browser) IsConnected() bool {
	_, err := b.upgrade()
	return err == nil
}

// Contexts returns the live BrowserContext children of this Browser.
func (b *Browser) Contexts() ([]*BrowserContext, error) {
	obj, err := b.upgrade()
	if err != nil {
		return nil, err
	}
	var out []*BrowserContext
	for _, c := range obj.Children() {
		if bc, ok := wrap(b.registry, c).(*BrowserContext); ok {
			out = append(out, bc)
		}
	}
	return out, nil
}
