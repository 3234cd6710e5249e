// Package playwright exposes the public, typed façade over the driver
// client runtime: Playwright, BrowserType, Browser, BrowserContext, Page,
// Frame, and the event-bearing leaf objects
package playwright

import (
	"context"
	"encoding/json"

	"github.com/oakline-labs/playwright-go/object"
	"github.com/oakline-labs/playwright-go/perrors"
)

// Handle is the weak reference every façade embeds: a (registry, guid)
// pair rather than a direct *object.Object pointer. Holding the guid
// instead of the pointer means Disposed objects become immediately
// non-upgradable the moment the driver loop removes them from the
// Registry — there is no GC-timing-dependent window where a façade could
// still observe a disposed object, which Go's runtime/weak package cannot
// guarantee.
type Handle struct {
	registry *object.Registry
	guid     string
}

// newHandle wraps guid as a weak reference against registry.
func newHandle(registry *object.Registry, guid string) Handle {
	return Handle{registry: registry, guid: guid}
}

// GUID returns the façade's identity, stable for its lifetime regardless
// of whether the underlying object is still live.
func (h Handle) GUID() string { return h.guid }

// upgrade resolves the weak reference to its live Object, failing with
// perrors.ObjectGone if it has been disposed.
func (h Handle) upgrade() (*object.Object, error) {
	obj := h.registry.Lookup(h.guid)
	if obj == nil {
		return nil, &perrors.ObjectGone{GUID: h.guid}
	}
	return obj, nil
}

// send upgrades the handle and forwards method/params to the remote
// object.
func (h Handle) send(ctx context.Context, method string, params any) (json.RawMessage, error) {
	obj, err := h.upgrade()
	if err != nil {
		return nil, err
	}
	raw, err := encodeParams(params)
	if err != nil {
		return nil, err
	}
	return obj.Send(ctx, method, raw)
}

// on upgrades the handle and subscribes cb to method, returning a
// Subscription the caller can cancel. Returns perrors.ObjectGone instead
// of subscribing if the handle is already disposed.
func (h Handle) on(method string, cb object.Subscriber) (object.Subscription, error) {
	obj, err := h.upgrade()
	if err != nil {
		return nil, err
	}
	return obj.On(method, cb), nil
}

func encodeParams(params any) (json.RawMessage, error) {
	if params == nil {
		return json.RawMessage(`{}`), nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return data, nil
}

// wrap constructs the façade value of the right concrete type for obj's
// Type. Variant types the generator has not lowered yet fall back to a
// bare Handle.
func wrap(registry *object.Registry, obj *object.Object) any {
	h := newHandle(registry, obj.GUID())
	switch obj.Type() {
	case object.TypePlaywright:
		return &Playwright{Handle: h}
	case object.TypeBrowserType:
		return &BrowserType{Handle: h}
	case object.TypeBrowser:
		return &Browser{Handle: h}
	case object.TypeBrowserContext:
		return &BrowserContext{Handle: h}
	case object.TypePage:
		return &Page{Handle: h}
	case object.TypeFrame:
		return &Frame{Handle: h}
	case object.TypeElementHandle:
		return &ElementHandle{JSHandle: JSHandle{Handle: h}}
	case object.TypeJSHandle:
		return &JSHandle{Handle: h}
	case object.TypeWorker:
		return &Worker{Handle: h}
	case object.TypeRequest:
		return &Request{Handle: h}
	case object.TypeResponse:
		return &Response{Handle: h}
	case object.TypeRoute:
		return &Route{Handle: h}
	case object.TypeConsoleMessage:
		return &ConsoleMessage{Handle: h}
	case object.TypeDialog:
		return &Dialog{Handle: h}
	case object.TypeDownload:
		return &Download{Handle: h}
	case object.TypeSelectors:
		return &Selectors{Handle: h}
	case object.TypeBindingCall:
		return &BindingCall{Handle: h}
	case object.TypeStream:
		return &Stream{Handle: h}
	case object.TypeCDPSession:
		return &CDPSession{Handle: h}
	case object.TypeVideo:
		return &Video{Handle: h}
	case object.TypeAccessibility:
		return &Accessibility{Handle: h}
	default:
		return &h
	}
}
