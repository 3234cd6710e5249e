package connection

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oakline-labs/playwright-go/object"
	pwtransport "github.com/oakline-labs/playwright-go/transport"
)

// driverHelperEnv marks the re-exec of this test binary as a fake driver
// process, following the same self-exec helper pattern used by the
// transport package's own tests.
const driverHelperEnv = "PLAYWRIGHT_CONNECTION_TEST_HELPER"

func startFakeDriver(t *testing.T, helper string) *pwtransport.Transport {
	t.Helper()
	tr, err := pwtransport.Start(os.Args[0], []string{"-test.run=" + helper, "--"}, []string{driverHelperEnv + "=1"})
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close(time.Second) })
	return tr
}

// TestConnectionBootstrapsRootObject exercises the first message
// from the driver is a Create notification for the root Playwright object,
// and Start must return it.
func TestConnectionBootstrapsRootObject(t *testing.T) {
	tr := startFakeDriver(t, "TestConnectionHelperRootOnly")
	conn := New(tr, "test-session", nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	root, err := conn.Start(ctx)
	require.NoError(t, err)
	require.Equal(t, object.RootGUID, root.GUID())
	require.Equal(t, object.TypePlaywright, root.Type())
	require.Equal(t, StateRunning, conn.State())
}

// TestConnectionDispatchesChildCreateAndEvent exercises the full loop: root
// create, a child BrowserType create under the root, then a regular event on
// the child, verifying registry state and event fan-out.
func TestConnectionDispatchesChildCreateAndEvent(t *testing.T) {
	tr := startFakeDriver(t, "TestConnectionHelperRootAndChild")
	conn := New(tr, "test-session", nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	root, err := conn.Start(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return conn.Registry().Lookup("browserType1") != nil
	}, time.Second, time.Millisecond)

	bt := conn.Registry().Lookup("browserType1")
	require.Equal(t, object.TypeBrowserType, bt.Type())
	require.Len(t, root.Children(), 1)

	events := make(chan json.RawMessage, 1)
	bt.On("disconnected", func(params json.RawMessage) {
		events <- params
	})

	select {
	case params := <-events:
		require.JSONEq(t, `{"reason":"closed"}`, string(params))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event fan-out")
	}
}

// TestConnectionDisposeCascades exercises disposal through the driver loop:
// a child created under the root is removed from the registry once its
// __dispose__ notification arrives.
func TestConnectionDisposeCascades(t *testing.T) {
	tr := startFakeDriver(t, "TestConnectionHelperCreateThenDispose")
	conn := New(tr, "test-session", nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := conn.Start(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return conn.Registry().Lookup("browserType1") != nil
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		return conn.Registry().Lookup("browserType1") == nil
	}, time.Second, time.Millisecond)
}

// TestConnectionCloseIsIdempotent exercises that Close may be called more
// than once without error and leaves the Connection in StateClosed.
func TestConnectionCloseIsIdempotent(t *testing.T) {
	tr := startFakeDriver(t, "TestConnectionHelperRootOnly")
	conn := New(tr, "test-session", nil, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := conn.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, conn.Close(context.Background()))
	require.NoError(t, conn.Close(context.Background()))
	require.Equal(t, StateClosed, conn.State())
}

// recordingLogger implements telemetry.Logger, recording every Warn call so
// tests can assert on forwarded stderr lines without a real logging backend.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(context.Context, string, ...any) {}
func (l *recordingLogger) Info(context.Context, string, ...any)  {}
func (l *recordingLogger) Error(context.Context, string, ...any) {}
func (l *recordingLogger) Warn(_ context.Context, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}
func (l *recordingLogger) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

// TestConnectionForwardsDriverStderr exercises that lines the driver writes
// to stderr are rate-limited and forwarded through the Connection's logger,
// rather than being silently inherited by the parent process.
func TestConnectionForwardsDriverStderr(t *testing.T) {
	tr := startFakeDriver(t, "TestConnectionHelperRootThenStderr")
	logger := &recordingLogger{}
	conn := New(tr, "test-session", logger, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := conn.Start(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, msg := range logger.snapshot() {
			if msg == "driver stderr" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "expected driver stderr to be forwarded to the logger")
}

// --- fake driver helper processes ---

func writeFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func blockUntilStdinCloses() {
	io.Copy(io.Discard, os.Stdin)
}

func TestConnectionHelperRootOnly(t *testing.T) {
	if os.Getenv(driverHelperEnv) != "1" {
		t.Skip("helper process")
	}
	writeFrame(os.Stdout, []byte(`{"guid":"","method":"__create__","params":{"type":"Playwright","guid":"Playwright","initializer":{}}}`))
	blockUntilStdinCloses()
}

func TestConnectionHelperRootAndChild(t *testing.T) {
	if os.Getenv(driverHelperEnv) != "1" {
		t.Skip("helper process")
	}
	writeFrame(os.Stdout, []byte(`{"guid":"","method":"__create__","params":{"type":"Playwright","guid":"Playwright","initializer":{}}}`))
	writeFrame(os.Stdout, []byte(`{"guid":"Playwright","method":"__create__","params":{"type":"BrowserType","guid":"browserType1","initializer":{"name":"chromium"}}}`))
	time.Sleep(200 * time.Millisecond)
	writeFrame(os.Stdout, []byte(`{"guid":"browserType1","method":"disconnected","params":{"reason":"closed"}}`))
	blockUntilStdinCloses()
}

func TestConnectionHelperRootThenStderr(t *testing.T) {
	if os.Getenv(driverHelperEnv) != "1" {
		t.Skip("helper process")
	}
	writeFrame(os.Stdout, []byte(`{"guid":"","method":"__create__","params":{"type":"Playwright","guid":"Playwright","initializer":{}}}`))
	os.Stderr.WriteString("driver warming up\n")
	blockUntilStdinCloses()
}

func TestConnectionHelperCreateThenDispose(t *testing.T) {
	if os.Getenv(driverHelperEnv) != "1" {
		t.Skip("helper process")
	}
	writeFrame(os.Stdout, []byte(`{"guid":"","method":"__create__","params":{"type":"Playwright","guid":"Playwright","initializer":{}}}`))
	writeFrame(os.Stdout, []byte(`{"guid":"Playwright","method":"__create__","params":{"type":"BrowserType","guid":"browserType1","initializer":{}}}`))
	writeFrame(os.Stdout, []byte(`{"guid":"browserType1","method":"__dispose__","params":{}}`))
	blockUntilStdinCloses()
}
