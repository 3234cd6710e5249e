// Package connection implements the single-threaded cooperative driver
// loop that owns the Transport, Object Registry, and RPC Engine. The loop
// is the sole mutator of the registry's map. It is not the sole mutator of
// the engine's waiter map: rpc.Engine.Send adds and removes entries from
// the caller's goroutine, under the engine's mutex.
package connection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/oakline-labs/playwright-go/object"
	"github.com/oakline-labs/playwright-go/perrors"
	"github.com/oakline-labs/playwright-go/protocol"
	"github.com/oakline-labs/playwright-go/rpc"
	"github.com/oakline-labs/playwright-go/telemetry"
)

// State is the Connection's lifecycle state
type State int

const (
	StateRunning State = iota
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Transport is the subset of transport.Transport the driver loop needs.
// Declared as an interface here so tests can substitute an in-memory pipe.
type Transport interface {
	Send(payload []byte) error
	Recv() ([]byte, error)
	Close(grace time.Duration) error
}

// CloseGrace is the recommended grace period before the Transport
// forcibly kills the driver process.
const CloseGrace = 5 * time.Second

// initTimeout bounds how long Connection waits for the driver's initial
// root Create notification before failing with InitializationFailed.
const initTimeout = 30 * time.Second

// Connection owns a Transport's driver loop: it pulls one message at a
// time, classifies it, and dispatches to the Registry or RPC Engine. No
// other goroutine mutates the Registry's map — this loop is its sole
// writer. The Engine's waiter map is also written by callers of
// Engine.Send, which register and remove their own waiters.
type Connection struct {
	transport Transport
	registry  *object.Registry
	engine    *rpc.Engine
	sessionID string

	logger  telemetry.Logger
	tracer  telemetry.Tracer
	metrics telemetry.Metrics

	stderrLimiter *rate.Limiter

	// baseCtx carries the observability state (logger, span, baggage) of
	// the caller that started the loop. dispatch merges it into the
	// per-message context so driver-originated work is still attributed
	// to the call that started the Connection.
	baseCtx context.Context

	mu    sync.Mutex
	state State

	closeOnce sync.Once
	closeErr  error
	doneCh    chan struct{}
}

// New wires a Connection around transport, ready to run its driver loop.
// sessionID is a correlation id (typically a uuid.UUID string) stamped on
// every log line this connection emits.
func New(transport Transport, sessionID string, logger telemetry.Logger, tracer telemetry.Tracer, metrics telemetry.Metrics) *Connection {
	if logger == nil {
		logger = telemetry.Noop{}
	}
	if tracer == nil {
		tracer = telemetry.Noop{}
	}
	if metrics == nil {
		metrics = telemetry.Noop{}
	}
	c := &Connection{
		transport:     transport,
		sessionID:     sessionID,
		logger:        logger,
		tracer:        tracer,
		metrics:       metrics,
		stderrLimiter: rate.NewLimiter(rate.Every(time.Second), 20),
		baseCtx:       context.Background(),
		doneCh:        make(chan struct{}),
	}
	c.engine = rpc.NewEngine(transport, tracer, logger, metrics)
	c.registry = object.New(c.engine, logger, metrics)
	c.registry.OnDispose = c.engine.FailGUID
	if src, ok := transport.(stderrSource); ok {
		go c.scanStderr(src.StderrLines())
	}
	return c
}

// stderrSource is implemented by Transports that capture the driver's
// stderr as a stream of lines rather than inheriting the parent process's
// stderr directly. transport.Transport implements it.
type stderrSource interface {
	StderrLines() <-chan string
}

// scanStderr forwards every line the Transport captured from the driver's
// stderr through forwardStderrDiagnostic until the Transport closes the
// channel (on process exit or Transport.Close).
func (c *Connection) scanStderr(lines <-chan string) {
	for line := range lines {
		c.forwardStderrDiagnostic(line)
	}
}

// Registry exposes the Object Registry for façade code to look up handles.
func (c *Connection) Registry() *object.Registry { return c.registry }

// Engine exposes the RPC Engine for façade code that needs to issue
// guid-scoped requests directly (most façades instead call Object.Send).
func (c *Connection) Engine() *rpc.Engine { return c.engine }

// State reports the Connection's current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// setBaseCtx records the observability context of the caller that started
// the loop, guarded by mu since the stderr-scanning goroutine may read it
// concurrently via context().
func (c *Connection) setBaseCtx(ctx context.Context) {
	c.mu.Lock()
	c.baseCtx = ctx
	c.mu.Unlock()
}

// context returns the most recently recorded base context, merged onto a
// fresh background context for a single dispatched message or log line.
func (c *Connection) context() context.Context {
	c.mu.Lock()
	base := c.baseCtx
	c.mu.Unlock()
	return telemetry.MergeContext(context.Background(), base)
}

// Start launches the driver loop goroutine and blocks until the root
// object is created (or initTimeout elapses), returning it. It is the
// caller's responsibility to call Close when done.
func (c *Connection) Start(ctx context.Context) (*object.Object, error) {
	c.setBaseCtx(ctx)

	rootCh := make(chan *object.Object, 1)
	var once sync.Once

	go c.loop(func(obj *object.Object) {
		if obj.GUID() == object.RootGUID {
			once.Do(func() { rootCh <- obj })
		}
	})

	timer := time.NewTimer(initTimeout)
	defer timer.Stop()
	select {
	case root := <-rootCh:
		return root, nil
	case <-timer.C:
		cause := fmt.Errorf("no root object within %s", initTimeout)
		c.fail(cause)
		return nil, &perrors.InitializationFailed{Cause: cause}
	case <-c.doneCh:
		return nil, &perrors.InitializationFailed{Cause: c.closeErr}
	case <-ctx.Done():
		c.fail(ctx.Err())
		return nil, &perrors.InitializationFailed{Cause: ctx.Err()}
	}
}

// loop is the single-threaded cooperative driver loop. Every
// iteration processes exactly one message, so no message class can starve
// another. onCreate is invoked synchronously after each successful Create
// so Start can observe the root object.
func (c *Connection) loop(onCreate func(*object.Object)) {
	defer close(c.doneCh)
	for {
		raw, err := c.transport.Recv()
		if err != nil {
			c.fail(err)
			return
		}
		c.dispatch(raw, onCreate)
	}
}

func (c *Connection) dispatch(raw []byte, onCreate func(*object.Object)) {
	ctx, span := c.tracer.Start(c.context(), "playwright.connection.dispatch")
	defer span.End()

	in, err := protocol.DecodeIncoming(raw)
	if err != nil {
		c.logger.Error(ctx, "malformed driver message", "error", err.Error())
		return
	}

	switch in.Kind {
	case protocol.KindResponse:
		c.engine.Resolve(in.ID, in.Result, in.Err)

	case protocol.KindCreate:
		obj, err := c.registry.Create(in.GUID, object.Type(in.Create.Type), in.Create.GUID, in.Create.Initializer)
		if err != nil {
			c.logger.Error(ctx, "create failed", "guid", in.Create.GUID, "error", err.Error())
			return
		}
		c.registry.DispatchEvent(in.GUID, in.Method, in.Params)
		if onCreate != nil {
			onCreate(obj)
		}

	case protocol.KindDispose:
		c.registry.Dispose(in.GUID)

	case protocol.KindEvent:
		c.registry.DispatchEvent(in.GUID, in.Method, in.Params)
	}
}

// fail transitions the Connection to Closed due to a terminal Transport
// error or internal failure, failing every outstanding RPC waiter with
// ConnectionClosed.
func (c *Connection) fail(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()
		c.closeErr = cause
		c.engine.FailAll(cause)
		c.logger.Warn(c.context(), "connection closed", "cause", fmt.Sprint(cause))
	})
}

// Close gracefully shuts down the Connection: it transitions to Closing,
// closes the Transport (which causes Recv to fail and the loop to exit),
// and waits for the loop to observe that before returning. Close is
// idempotent: closing an already-closed Connection succeeds.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosing
	c.mu.Unlock()

	_ = c.transport.Close(CloseGrace)

	select {
	case <-c.doneCh:
	case <-ctx.Done():
	}
	c.fail(nil)
	return nil
}

// forwardStderrDiagnostic rate-limits stderr-derived log lines so a
// misbehaving driver spewing megabytes of stderr cannot flood the logger.
// Called from scanStderr, one line at a time, as the Transport's stderr
// pipe is drained.
func (c *Connection) forwardStderrDiagnostic(line string) {
	if !c.stderrLimiter.Allow() {
		return
	}
	c.logger.Warn(c.context(), "driver stderr", "line", line, "session", c.sessionID)
}
