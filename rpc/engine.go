// Package rpc implements request/response correlation (the RPC Engine) and
// the waiter/event subsystem: single-shot waiters, multi-shot event
// subscriptions, and expect_event.
package rpc

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/oakline-labs/playwright-go/perrors"
	"github.com/oakline-labs/playwright-go/protocol"
	"github.com/oakline-labs/playwright-go/telemetry"
)

// Writer sends an already-framed request payload. The Transport
// implements this.
type Writer interface {
	Send(payload []byte) error
}

type pendingEntry struct {
	guid string
	ch   chan outcome
}

type outcome struct {
	result json.RawMessage
	err    error
}

// Engine allocates request ids, writes requests via Writer, parks waiters,
// and resumes them on a matching Response. It holds no
// per-method state; the waiter map is its only shared structure, guarded
// by mu. It has more than one writer: Send adds an entry and removes it on
// a write failure or context cancellation from the caller's goroutine, and
// Resolve/FailAll/FailGUID remove entries from the Connection side.
type Engine struct {
	writer Writer
	nextID uint32 // atomic counter; ids allocated starting at 1

	mu      sync.Mutex
	pending map[uint32]*pendingEntry
	closed  bool
	closeErr error

	tracer  telemetry.Tracer
	logger  telemetry.Logger
	metrics telemetry.Metrics
}

// NewEngine constructs an Engine that writes outgoing requests through w.
func NewEngine(w Writer, tracer telemetry.Tracer, logger telemetry.Logger, metrics telemetry.Metrics) *Engine {
	if tracer == nil {
		tracer = telemetry.Noop{}
	}
	if logger == nil {
		logger = telemetry.Noop{}
	}
	if metrics == nil {
		metrics = telemetry.Noop{}
	}
	return &Engine{
		writer:  w,
		pending: make(map[uint32]*pendingEntry),
		tracer:  tracer,
		logger:  logger,
		metrics: metrics,
	}
}

// Send implements object.Sender: it assigns a monotonically increasing id,
// registers a single-shot waiter, writes the request, and suspends until a
// matching Response arrives, the context is cancelled, or the connection
// closes.
func (e *Engine) Send(ctx context.Context, guid, method string, params json.RawMessage) (json.RawMessage, error) {
	if params == nil {
		params = json.RawMessage(`{}`)
	}
	ctx, span := e.tracer.Start(ctx, "playwright.rpc."+method)
	defer span.End()

	id := atomic.AddUint32(&e.nextID, 1)
	ch := make(chan outcome, 1)

	e.mu.Lock()
	if e.closed {
		err := e.closeErr
		e.mu.Unlock()
		if err == nil {
			err = &perrors.ConnectionClosed{}
		}
		return nil, err
	}
	e.pending[id] = &pendingEntry{guid: guid, ch: ch}
	e.mu.Unlock()

	req := protocol.Request{ID: id, GUID: guid, Method: method, Params: params}
	data, err := protocol.EncodeRequest(req)
	if err != nil {
		e.removePending(id)
		return nil, err
	}
	if err := e.writer.Send(data); err != nil {
		e.removePending(id)
		return nil, err
	}

	e.logger.Debug(ctx, "rpc request sent", "id", id, "guid", guid, "method", method)
	e.metrics.IncCounter("playwright.rpc.requests_sent", 1, "method", method)

	select {
	case o := <-ch:
		if o.err != nil {
			span.RecordError(o.err)
			return nil, o.err
		}
		return o.result, nil
	case <-ctx.Done():
		e.removePending(id)
		return nil, ctx.Err()
	}
}

// Resolve completes the waiter for id with either result or err, called by
// the Connection driver loop on a matching Response. It is a no-op if id
// is unknown (cancelled or already resolved), so a waiter is resolved
// at most once.
func (e *Engine) Resolve(id uint32, result json.RawMessage, errPayload *protocol.ErrorPayload) {
	e.mu.Lock()
	entry, ok := e.pending[id]
	if ok {
		delete(e.pending, id)
	}
	e.mu.Unlock()
	if !ok {
		return
	}

	var err error
	if errPayload != nil {
		err = &perrors.ErrorResponded{
			Name:    errPayload.Error.Name,
			Message: errPayload.Error.Message,
			Stack:   errPayload.Error.Stack,
		}
	}
	entry.ch <- outcome{result: result, err: err}
}

// Cancel removes the waiter for id without resolving it, so a later
// Response for that id is silently dropped.
func (e *Engine) Cancel(id uint32) {
	e.removePending(id)
}

// FailGUID resolves every outstanding waiter targeting guid with
// ObjectDisposed. The Object Registry calls this from its OnDispose hook.
func (e *Engine) FailGUID(guid string) {
	e.mu.Lock()
	var matched []*pendingEntry
	for id, entry := range e.pending {
		if entry.guid == guid {
			matched = append(matched, entry)
			delete(e.pending, id)
		}
	}
	e.mu.Unlock()

	for _, entry := range matched {
		entry.ch <- outcome{err: &perrors.ObjectDisposed{GUID: guid}}
	}
}

// FailAll resolves every outstanding waiter with ConnectionClosed(cause)
// and marks the Engine closed so subsequent Send calls fail immediately.
// The Connection calls it once, from whichever goroutine first closes it:
// the driver loop on terminal transport failure, Close, or Start when the
// root object never arrives. Later calls are no-ops.
func (e *Engine) FailAll(cause error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.closeErr = &perrors.ConnectionClosed{Cause: cause}
	matched := make([]*pendingEntry, 0, len(e.pending))
	for id, entry := range e.pending {
		matched = append(matched, entry)
		delete(e.pending, id)
	}
	e.mu.Unlock()

	for _, entry := range matched {
		entry.ch <- outcome{err: e.closeErr}
	}
}

func (e *Engine) removePending(id uint32) {
	e.mu.Lock()
	delete(e.pending, id)
	e.mu.Unlock()
}

// PendingCount reports the number of outstanding waiters; exposed for
// tests and diagnostics only.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}
