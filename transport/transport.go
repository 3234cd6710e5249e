// Package transport owns the driver child process and frames messages as a
// 4-byte little-endian length prefix followed by a UTF-8 JSON payload, in
// both directions.
package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/oakline-labs/playwright-go/perrors"
)

// maxMessageBytes bounds a single incoming frame so a corrupt or hostile
// length prefix cannot force an unbounded allocation.
const maxMessageBytes = 256 << 20 // 256 MiB

// stderrLineBuffer bounds how many undelivered driver stderr lines Transport
// holds before dropping newly read ones; the connection layer rate-limits
// what it logs, so this is a backstop against an unread channel rather than
// the primary throttle.
const stderrLineBuffer = 256

// Transport owns the driver subprocess's stdin/stdout/stderr and frames
// messages across stdin/stdout. It does not interpret message contents;
// that is the codec/connection layer's job.
type Transport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	stderrLines chan string

	writeMu sync.Mutex
	closed  bool
	closeMu sync.Mutex
}

// Start spawns the driver as "<executable> <args...>" (args is used as
// given; a Locator such as driverexec.EnvLocator supplies the leading
// "run"), capturing
// stdin/stdout for the framed protocol and stderr as a stream of lines
// available from StderrLines for a caller to forward (rate-limited) into
// its own logging.
func Start(executable string, args []string, env []string) (*Transport, error) {
	cmd := exec.Command(executable, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("transport: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("transport: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("transport: stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("transport: start driver: %w", err)
	}

	t := &Transport{
		cmd:         cmd,
		stdin:       stdin,
		stdout:      bufio.NewReaderSize(stdout, 64<<10),
		stderrLines: make(chan string, stderrLineBuffer),
	}
	go t.scanStderr(stderr)
	return t, nil
}

// StderrLines returns the channel of lines read from the driver's stderr.
// It is closed once the driver's stderr reaches EOF (normally on process
// exit). A caller that never drains it only loses diagnostics once
// stderrLineBuffer lines are buffered; it never blocks the driver.
func (t *Transport) StderrLines() <-chan string {
	return t.stderrLines
}

// scanStderr reads the driver's stderr line by line until EOF, dropping
// lines instead of blocking once stderrLines is full.
func (t *Transport) scanStderr(r io.Reader) {
	defer close(t.stderrLines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	for scanner.Scan() {
		select {
		case t.stderrLines <- scanner.Text():
		default:
		}
	}
}

// Send writes one framed message atomically: a 4-byte little-endian length
// prefix followed by the payload bytes.
func (t *Transport) Send(payload []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := t.stdin.Write(header[:]); err != nil {
		return &perrors.TransportClosed{Cause: err}
	}
	if _, err := t.stdin.Write(payload); err != nil {
		return &perrors.TransportClosed{Cause: err}
	}
	return nil
}

// Recv reads exactly one framed message: a 4-byte little-endian length
// prefix followed by that many bytes. It returns perrors.TransportClosed on
// EOF or any I/O error, including a short read.
func (t *Transport) Recv() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(t.stdout, header[:]); err != nil {
		return nil, &perrors.TransportClosed{Cause: err}
	}
	length := binary.LittleEndian.Uint32(header[:])
	if length > maxMessageBytes {
		return nil, &perrors.TransportClosed{Cause: fmt.Errorf("frame of %d bytes exceeds limit", length)}
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(t.stdout, buf); err != nil {
		return nil, &perrors.TransportClosed{Cause: err}
	}
	return buf, nil
}

// Close closes stdin, then waits for the process to exit within grace
// before killing it. Close is idempotent.
func (t *Transport) Close(grace time.Duration) error {
	t.closeMu.Lock()
	if t.closed {
		t.closeMu.Unlock()
		return nil
	}
	t.closed = true
	t.closeMu.Unlock()

	_ = t.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- t.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(grace):
		_ = t.cmd.Process.Kill()
		<-done
	}
	return nil
}
