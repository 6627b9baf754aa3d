package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsFrames(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Building scene...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !bytes.Contains([]byte(out.String()), []byte("Building scene...")) {
		t.Errorf("spinner output %q should contain the message", out.String())
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	s := newSpinnerTo(ctx, &out, "Testing with context...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner goroutine should exit when the context is cancelled")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "never started")

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() without Start() should not block")
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Testing error...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed!")
}
