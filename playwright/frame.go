package playwright

import (
	"context"
	"encoding/json"

	"github.com/oakline-labs/playwright-go/perrors"
)

// Frame performs DOM queries, evaluation, and sub-navigation within one
// frame of a Page.
type Frame struct {
	Handle
}

// WaitForSelectorOptions collects Frame.WaitForSelector's optional
// parameters.
type WaitForSelectorOptions struct {
	Timeout float64 `json:"timeout,omitempty"`
	State   string  `json:"state,omitempty"`
}

// WaitForSelectorBuilder accumulates WaitForSelectorOptions.
type WaitForSelectorBuilder struct {
	frame    *Frame
	selector string
	opts     WaitForSelectorOptions
}

// WaitForSelectorBuilder starts a wait for selector to match.
func (f *Frame) WaitForSelectorBuilder(selector string) *WaitForSelectorBuilder {
	return &WaitForSelectorBuilder{frame: f, selector: selector}
}

func (b *WaitForSelectorBuilder) Timeout(ms float64) *WaitForSelectorBuilder {
	b.opts.Timeout = ms
	return b
}
func (b *WaitForSelectorBuilder) State(v string) *WaitForSelectorBuilder {
	b.opts.State = v
	return b
}

// WaitForSelector sends the accumulated options and returns the matched
// ElementHandle, or nil if State("detached") matched absence.
func (b *WaitForSelectorBuilder) WaitForSelector(ctx context.Context) (*ElementHandle, error) {
	params := struct {
		WaitForSelectorOptions
		Selector string `json:"selector"`
	}{WaitForSelectorOptions: b.opts, Selector: b.selector}
	raw, err := b.frame.send(ctx, "waitForSelector", params)
	if err != nil {
		return nil, err
	}
	var res struct {
		Element *struct{ GUID string } `json:"element"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &perrors.Serde{Cause: err}
	}
	if res.Element == nil {
		return nil, nil
	}
	return &ElementHandle{JSHandle: JSHandle{Handle: newHandle(b.frame.registry, res.Element.GUID)}}, nil
}

// EvalOnSelector evaluates expression against the first element matching
// selector. Two required parameters, no optional fields, so it is a direct
// call.
func (f *Frame) EvalOnSelector(ctx context.Context, selector, expression string) (json.RawMessage, error) {
	params := struct {
		Selector   string `json:"selector"`
		Expression string `json:"expression"`
	}{Selector: selector, Expression: expression}
	raw, err := f.send(ctx, "evalOnSelector", params)
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

// URL returns the frame's current URL from its initializer.
func (f *Frame) URL() (string, error) {
	obj, err := f.upgrade()
	if err != nil {
		return "", err
	}
	var init struct {
		URL string `json:"url"`
	}
	if len(obj.Initializer()) > 0 {
		if err := json.Unmarshal(obj.Initializer(), &init); err != nil {
			return "", &perrors.Serde{Cause: err}
		}
	}
	return init.URL, nil
}

// ChildFrames returns the live child Frames of this Frame.
func (f *Frame) ChildFrames() ([]*Frame, error) {
	obj, err := f.upgrade()
	if err != nil {
		return nil, err
	}
	var out []*Frame
	for _, c := range obj.Children() {
		if fr, ok := wrap(f.registry, c).(*Frame); ok {
			out = append(out, fr)
		}
	}
	return out, nil
}
