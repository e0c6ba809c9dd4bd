package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a one-line progress message on stderr until it is
// stopped or its context ends. Off a terminal it prints nothing.
type spinner struct {
	message string
	w       io.Writer
	animate bool

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	mu      sync.Mutex // guards writes to w
}

func newSpinner(ctx context.Context, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{
		message: message,
		w:       os.Stderr,
		animate: isatty.IsTerminal(os.Stderr.Fd()),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start must be called exactly once.
func (s *spinner) Start() {
	if !s.animate {
		close(s.stopped)
		return
	}
	go s.loop()
}

func (s *spinner) loop() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.write(fmt.Sprintf("\r%s\r", strings.Repeat(" ", len(s.message)+4)))
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.write(fmt.Sprintf("\r%s %s", styleHighlight.Render(frame), styleDim.Render(s.message)))
		}
	}
}

func (s *spinner) write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.w, text)
}

// Stop clears the line and waits for the animation to exit. It is safe to
// call more than once.
func (s *spinner) Stop() {
	s.cancel()
	<-s.stopped
}

func (s *spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner was stopped or its context ended.
func (s *spinner) Cancelled() bool { return s.ctx.Err() != nil }
