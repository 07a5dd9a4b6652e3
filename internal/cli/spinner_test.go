package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := newSpinner("Simulating...")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()
	// Stop cancels the spinner's own context
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop()")
	}
}

func TestSpinner_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Pebbling...")
	s.Start()
	cancel()

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("spinner goroutine did not exit after cancel")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancel")
	}
}

func TestSpinner_StopWithMessage(t *testing.T) {
	s := newSpinner("Rendering...")
	s.Start()
	s.StopWithSuccess("Rendered")

	s = newSpinner("Rendering...")
	s.Start()
	s.StopWithError("Render failed")
}
