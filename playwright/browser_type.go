package playwright

import (
	"context"
	"encoding/json"

	"github.com/oakline-labs/playwright-go/perrors"
)

// BrowserType exposes launch/connect operations for one browser engine
// (chromium, firefox, or webkit).
type BrowserType struct {
	Handle
}

// browserResult is the shape of launch/connect responses: a reference to
// the newly created Browser remote object.
type browserResult struct {
	Browser struct {
		GUID string `json:"guid"`
	} `json:"browser"`
}

func (bt *BrowserType) wrapBrowser(res browserResult) (*Browser, error) {
	obj := bt.registry.Lookup(res.Browser.GUID)
	if obj == nil {
		return nil, &perrors.ObjectGone{GUID: res.Browser.GUID}
	}
	return &Browser{Handle: newHandle(bt.registry, res.Browser.GUID)}, nil
}

// LaunchOptions collects BrowserType.Launch's optional parameters. Launch
// has far more than one optional field, so it is exposed only through
// LaunchBuilder rather than as direct named parameters.
type LaunchOptions struct {
	Headless          *bool    `json:"headless,omitempty"`
	Channel           string   `json:"channel,omitempty"`
	ExecutablePath    string   `json:"executablePath,omitempty"`
	Args              []string `json:"args,omitempty"`
	IgnoreDefaultArgs bool     `json:"ignoreDefaultArgs,omitempty"`
	Timeout           *float64 `json:"timeout,omitempty"`
	Devtools          bool     `json:"devtools,omitempty"`
	Proxy             *Proxy   `json:"proxy,omitempty"`
}

// Proxy configures outbound proxying for a launched browser.
type Proxy struct {
	Server   string `json:"server"`
	Bypass   string `json:"bypass,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// LaunchBuilder accumulates LaunchOptions fields before a terminal Launch
// call, per the builder idiom: unset fields are omitted from the wire
// params rather than sent as zero values.
type LaunchBuilder struct {
	bt   *BrowserType
	opts LaunchOptions
}

// LaunchBuilder starts a new launch configuration.
func (bt *BrowserType) LaunchBuilder() *LaunchBuilder {
	return &LaunchBuilder{bt: bt}
}

func (b *LaunchBuilder) Headless(v bool) *LaunchBuilder         { b.opts.Headless = &v; return b }
func (b *LaunchBuilder) Channel(v string) *LaunchBuilder        { b.opts.Channel = v; return b }
func (b *LaunchBuilder) ExecutablePath(v string) *LaunchBuilder { b.opts.ExecutablePath = v; return b }
func (b *LaunchBuilder) Args(v []string) *LaunchBuilder         { b.opts.Args = v; return b }
func (b *LaunchBuilder) Timeout(ms float64) *LaunchBuilder      { b.opts.Timeout = &ms; return b }
func (b *LaunchBuilder) Devtools(v bool) *LaunchBuilder         { b.opts.Devtools = v; return b }
func (b *LaunchBuilder) Proxy(v Proxy) *LaunchBuilder           { b.opts.Proxy = &v; return b }

// Launch sends the accumulated options and returns the new Browser.
func (b *LaunchBuilder) Launch(ctx context.Context) (*Browser, error) {
	raw, err := b.bt.send(ctx, "launch", b.opts)
	if err != nil {
		return nil, err
	}
	var res browserResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return b.bt.wrapBrowser(res)
}

// Connect attaches to an already-running browser over a websocket endpoint.
// It has exactly one required and one optional parameter, so it is exposed
// as a direct call rather than a builder.
func (bt *BrowserType) Connect(ctx context.Context, wsEndpoint string, timeoutMS float64) (*Browser, error) {
	params := struct {
		WSEndpoint string  `json:"wsEndpoint"`
		Timeout    float64 `json:"timeout,omitempty"`
	}{WSEndpoint: wsEndpoint, Timeout: timeoutMS}
	raw, err := bt.send(ctx, "connect", params)
	if err != nil {
		return nil, err
	}
	var res browserResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return bt.wrapBrowser(res)
}

// Name returns the engine name ("chromium", "firefox", or "webkit") from
// the remote object's initializer.
func (bt *BrowserType) Name() (string, error) {
	obj, err := bt.upgrade()
	if err != nil {
		return "", err
	}
	var init struct {
		Name string `json:"name"`
	}
	if len(obj.Initializer()) > 0 {
		if err := json.Unmarshal(obj.Initializer(), &init); err != nil {
			return "", &perrors.Serde{Cause: err}
		}
	}
	return init.Name, nil
}
