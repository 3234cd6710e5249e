package rpc

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/oakline-labs/playwright-go/perrors"
	"github.com/oakline-labs/playwright-go/protocol"
)

// recordingWriter captures every framed request sent through it and lets
// tests decode the assigned id back out.
type recordingWriter struct {
	mu  sync.Mutex
	ids []uint32
}

func (w *recordingWriter) Send(payload []byte) error {
	var req protocol.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return err
	}
	w.mu.Lock()
	w.ids = append(w.ids, req.ID)
	w.mu.Unlock()
	return nil
}

func (w *recordingWriter) lastID() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ids[len(w.ids)-1]
}

// TestRequestResponseScenario exercises send id=7, driver
// responds with {id:7, result:{ok:true}}; the waiter resolves and the
// pending map no longer contains id 7.
func TestRequestResponseScenario(t *testing.T) {
	w := &recordingWriter{}
	e := NewEngine(w, nil, nil, nil)

	resultCh := make(chan json.RawMessage, 1)
	errCh := make(chan error, 1)
	go func() {
		res, err := e.Send(context.Background(), "Playwright", "someMethod", json.RawMessage(`{}`))
		resultCh <- res
		errCh <- err
	}()

	require.Eventually(t, func() bool { return e.PendingCount() == 1 }, time.Second, time.Millisecond)
	id := w.lastID()
	e.Resolve(id, json.RawMessage(`{"ok":true}`), nil)

	require.NoError(t, <-errCh)
	require.JSONEq(t, `{"ok":true}`, string(<-resultCh))
	require.Equal(t, 0, e.PendingCount())
}

// TestErrorResponseScenario exercises a driver-side error response being
// surfaced to the caller as a typed ErrorResponded.
func TestErrorResponseScenario(t *testing.T) {
	w := &recordingWriter{}
	e := NewEngine(w, nil, nil, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := e.Send(context.Background(), "Playwright", "someMethod", json.RawMessage(`{}`))
		errCh <- err
	}()

	require.Eventually(t, func() bool { return e.PendingCount() == 1 }, time.Second, time.Millisecond)
	id := w.lastID()
	e.Resolve(id, nil, &protocol.ErrorPayload{Error: struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Stack   string `json:"stack"`
	}{Name: "TargetClosed", Message: "Target page has been closed"}})

	err := <-errCh
	require.Error(t, err)
	var responded *perrors.ErrorResponded
	require.ErrorAs(t, err, &responded)
	require.Equal(t, "TargetClosed", responded.Name)
	require.Equal(t, "Target page has been closed", responded.Message)
}

func TestResolveIsAtMostOnce(t *testing.T) {
	w := &recordingWriter{}
	e := NewEngine(w, nil, nil, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := e.Send(context.Background(), "g", "m", json.RawMessage(`{}`))
		errCh <- err
	}()
	require.Eventually(t, func() bool { return e.PendingCount() == 1 }, time.Second, time.Millisecond)
	id := w.lastID()

	e.Resolve(id, json.RawMessage(`1`), nil)
	require.NoError(t, <-errCh)
	// A second, late Resolve for the same id must be silently dropped.
	require.NotPanics(t, func() { e.Resolve(id, json.RawMessage(`2`), nil) })
}

func TestCancelDropsLateResponse(t *testing.T) {
	w := &recordingWriter{}
	e := NewEngine(w, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := e.Send(ctx, "g", "m", json.RawMessage(`{}`))
		errCh <- err
	}()
	require.Eventually(t, func() bool { return e.PendingCount() == 1 }, time.Second, time.Millisecond)
	id := w.lastID()
	cancel()
	require.Error(t, <-errCh)
	require.Eventually(t, func() bool { return e.PendingCount() == 0 }, time.Second, time.Millisecond)

	require.NotPanics(t, func() { e.Resolve(id, json.RawMessage(`1`), nil) })
}

func TestFailAllResolvesConnectionClosed(t *testing.T) {
	w := &recordingWriter{}
	e := NewEngine(w, nil, nil, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := e.Send(context.Background(), "g", "m", json.RawMessage(`{}`))
		errCh <- err
	}()
	require.Eventually(t, func() bool { return e.PendingCount() == 1 }, time.Second, time.Millisecond)

	e.FailAll(nil)
	err := <-errCh
	require.ErrorIs(t, err, perrors.ErrConnectionClosed)

	// Once closed, new Send calls fail immediately without writing.
	_, err = e.Send(context.Background(), "g", "m", json.RawMessage(`{}`))
	require.ErrorIs(t, err, perrors.ErrConnectionClosed)
}

func TestFailGUIDTargetsOnlyMatchingWaiters(t *testing.T) {
	w := &recordingWriter{}
	e := NewEngine(w, nil, nil, nil)

	err1 := make(chan error, 1)
	err2 := make(chan error, 1)
	go func() { _, err := e.Send(context.Background(), "page1", "m", json.RawMessage(`{}`)); err1 <- err }()
	go func() { _, err := e.Send(context.Background(), "page2", "m", json.RawMessage(`{}`)); err2 <- err }()
	require.Eventually(t, func() bool { return e.PendingCount() == 2 }, time.Second, time.Millisecond)

	e.FailGUID("page1")
	err := <-err1
	require.Error(t, err)
	var disposed *perrors.ObjectDisposed
	require.ErrorAs(t, err, &disposed)
	require.Equal(t, "page1", disposed.GUID)

	require.Equal(t, 1, e.PendingCount())
	e.Resolve(w.lastID(), json.RawMessage(`1`), nil)
	require.NoError(t, <-err2)
}

// TestIDMonotonicityProperty validates: for all issued request ids
// i1 < i2 iff i1 was allocated before i2.
func TestIDMonotonicityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("sequential sends allocate strictly increasing ids", prop.ForAll(
		func(n int) bool {
			if n < 1 {
				n = 1
			}
			if n > 50 {
				n = 50
			}
			w := &recordingWriter{}
			e := NewEngine(w, nil, nil, nil)
			var last uint32
			for i := 0; i < n; i++ {
				done := make(chan struct{})
				go func() {
					_, _ = e.Send(context.Background(), "g", "m", json.RawMessage(`{}`))
					close(done)
				}()
				for e.PendingCount() == 0 {
					time.Sleep(time.Microsecond)
				}
				id := w.lastID()
				if id <= last {
					return false
				}
				last = id
				e.Resolve(id, json.RawMessage(`1`), nil)
				<-done
			}
			return true
		},
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}
