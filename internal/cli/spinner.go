package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// spinnerFrames is the braille animation cycle, redrawn on each tick.
var spinnerFrames = [...]string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 100 * time.Millisecond

// Spinner renders a progress indicator on stderr while the CLI waits on
// the org: listing objects, running describes, polling for the OAuth
// callback. It stops on demand or when its context is canceled, so a
// Ctrl-C during a long describe leaves no stray animation frame behind.
type Spinner struct {
	message string
	parent  context.Context
	cancel  context.CancelFunc
	halt    sync.Once
	done    chan struct{} // closed by Stop
	gone    chan struct{} // closed when the render loop exits
}

// newSpinner creates a spinner that runs until stopped.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that also stops when ctx ends.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return &Spinner{
		message: message,
		parent:  ctx,
		done:    make(chan struct{}),
		gone:    make(chan struct{}),
	}
}

// Start launches the render loop. The first frame draws immediately so
// short waits still show feedback.
func (s *Spinner) Start() {
	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel

	go func() {
		defer close(s.gone)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		frame := 0
		s.draw(frame)
		for {
			select {
			case <-ctx.Done():
				s.erase()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame++
				s.draw(frame)
			}
		}
	}()
}

func (s *Spinner) draw(frame int) {
	glyph := spinnerFrames[frame%len(spinnerFrames)]
	fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.message))
}

// erase clears the whole line with an ANSI erase so message length never
// matters.
func (s *Spinner) erase() {
	fmt.Fprint(os.Stderr, "\r\x1b[2K")
}

// Stop halts the animation and clears the line. Safe to call repeatedly;
// a spinner that was never started stops cleanly too.
func (s *Spinner) Stop() {
	s.halt.Do(func() {
		if s.cancel == nil {
			close(s.gone)
		} else {
			s.cancel()
		}
		close(s.done)
	})
	<-s.gone
	s.erase()
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the surrounding context ended, as opposed to
// an explicit Stop. Callers use it to suppress error output after Ctrl-C.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
