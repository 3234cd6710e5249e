package playwright

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/oakline-labs/playwright-go/object"
	"github.com/oakline-labs/playwright-go/perrors"
)

// BrowserContext is an isolated browsing session owning zero or more
// Pages.
type BrowserContext struct {
	Handle
}

// NewPage creates a fresh Page within this context. Takes no optional
// parameters, so it is a direct call.
func (c *BrowserContext) NewPage(ctx context.Context) (*Page, error) {
	raw, err := c.send(ctx, "newPage", nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		Page struct{ GUID string } `json:"page"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	return &Page{Handle: newHandle(c.registry, res.Page.GUID)}, nil
}

// AddCookies adds cookies to this context. One required parameter, no
// optional fields, so it is a direct call.
func (c *BrowserContext) AddCookies(ctx context.Context, cookies []Cookie) error {
	params := struct {
		Cookies []Cookie `json:"cookies"`
	}{Cookies: cookies}
	_, err := c.send(ctx, "addCookies", params)
	return err
}

// StorageState returns the context's current cookies and origin storage.
func (c *BrowserContext) StorageState(ctx context.Context) (StorageState, error) {
	raw, err := c.send(ctx, "storageState", nil)
	if err != nil {
		return StorageState{}, err
	}
	var state StorageState
	if err := json.Unmarshal(raw, &state); err != nil {
		return StorageState{}, &perrors.Serde{Cause: err}
	}
	return state, nil
}

// Pages returns the live Page children of this context.
func (c *BrowserContext) Pages() ([]*Page, error) {
	obj, err := c.upgrade()
	if err != nil {
		return nil, err
	}
	var out []*Page
	for _, p := range obj.Children() {
		if page, ok := wrap(c.registry, p).(*Page); ok {
			out = append(out, page)
		}
	}
	return out, nil
}

// Close closes the context and every Page it owns. Idempotent: closing an
// already-gone context succeeds.
func (c *BrowserContext) Close(ctx context.Context) error {
	_, err := c.send(ctx, "close", nil)
	if err == nil {
		return nil
	}
	var gone *perrors.ObjectGone
	if errors.As(err, &gone) {
		return nil
	}
	return err
}

// OnPage subscribes to "page" events fired when a new Page opens in this
// context, e.g. via window.open.
func (c *BrowserContext) OnPage(cb func(*Page)) (object.Subscription, error) {
	return c.on("page", func(params json.RawMessage) {
		var ref struct {
			Page struct{ GUID string } `json:"page"`
		}
		if err := json.Unmarshal(params, &ref); err != nil {
			return
		}
		cb(&Page{Handle: newHandle(c.registry, ref.Page.GUID)})
	})
}
