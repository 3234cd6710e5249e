package playwright

import (
	"context"
	"encoding/json"

	"github.com/oakline-labs/playwright-go/connection"
	"github.com/oakline-labs/playwright-go/driverexec"
	"github.com/oakline-labs/playwright-go/perrors"
	"github.com/oakline-labs/playwright-go/transport"
)

// playwrightInitializer is the driver's initializer payload for the root
// Playwright object: guids of the three built-in BrowserType children plus
// the Selectors singleton.
type playwrightInitializer struct {
	Chromium  struct{ GUID string } `json:"chromium"`
	Firefox   struct{ GUID string } `json:"firefox"`
	Webkit    struct{ GUID string } `json:"webkit"`
	Selectors struct{ GUID string } `json:"selectors"`
}

// Playwright is the root façade: the entry point returned by Run, exposing
// the three built-in browser engines and the Selectors singleton.
type Playwright struct {
	Handle
	conn *connection.Connection
}

// Run spawns the driver process via locator, performs the Connection
// handshake, and returns the root Playwright façade. Callers must call
// Playwright.Stop when finished to terminate the driver process.
func Run(ctx context.Context, locator driverexec.Locator, opts RunOptions) (*Playwright, error) {
	cfg := opts.configOrDefault()
	executable, args, env, err := locator.Locate(cfg)
	if err != nil {
		return nil, err
	}
	tr, err := transport.Start(executable, args, env)
	if err != nil {
		return nil, &perrors.InitializationFailed{Cause: err}
	}

	conn := connection.New(tr, opts.sessionID(), opts.Logger, opts.Tracer, opts.Metrics)
	root, err := conn.Start(ctx)
	if err != nil {
		_ = conn.Close(context.Background())
		return nil, err
	}
	return &Playwright{Handle: newHandle(conn.Registry(), root.GUID()), conn: conn}, nil
}

// Stop gracefully closes the underlying Connection and driver process.
func (p *Playwright) Stop() error {
	return p.conn.Close(context.Background())
}

func (p *Playwright) initializer() (playwrightInitializer, error) {
	obj, err := p.upgrade()
	if err != nil {
		return playwrightInitializer{}, err
	}
	var init playwrightInitializer
	if len(obj.Initializer()) > 0 {
		if uerr := json.Unmarshal(obj.Initializer(), &init); uerr != nil {
			return playwrightInitializer{}, &perrors.Serde{Cause: uerr}
		}
	}
	return init, nil
}

func (p *Playwright) browserType(guid string) (*BrowserType, error) {
	obj := p.registry.Lookup(guid)
	if obj == nil {
		return nil, &perrors.ObjectGone{GUID: guid}
	}
	return &BrowserType{Handle: newHandle(p.registry, guid)}, nil
}

// Chromium returns the built-in Chromium BrowserType.
func (p *Playwright) Chromium() (*BrowserType, error) {
	init, err := p.initializer()
	if err != nil {
		return nil, err
	}
	return p.browserType(init.Chromium.GUID)
}

// Firefox returns the built-in Firefox BrowserType.
func (p *Playwright) Firefox() (*BrowserType, error) {
	init, err := p.initializer()
	if err != nil {
		return nil, err
	}
	return p.browserType(init.Firefox.GUID)
}

// Webkit returns the built-in WebKit BrowserType.
func (p *Playwright) Webkit() (*BrowserType, error) {
	init, err := p.initializer()
	if err != nil {
		return nil, err
	}
	return p.browserType(init.Webkit.GUID)
}

// Selectors returns the Selectors singleton shared by every browser engine.
func (p *Playwright) Selectors() (*Selectors, error) {
	init, err := p.initializer()
	if err != nil {
		return nil, err
	}
	obj := p.registry.Lookup(init.Selectors.GUID)
	if obj == nil {
		return nil, &perrors.ObjectGone{GUID: init.Selectors.GUID}
	}
	return &Selectors{Handle: newHandle(p.registry, init.Selectors.GUID)}, nil
}
