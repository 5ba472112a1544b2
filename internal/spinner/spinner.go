// Package spinner provides a terminal progress indicator for long-running
// operations, shown while an import fetches a page or a retrain rebuilds the
// recommendation models.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// frames is the animation cycle, one glyph per tick.
var frames = []string{"◜", "◠", "◝", "◞", "◡", "◟"}

// frameDelay is the time between animation ticks.
const frameDelay = 100 * time.Millisecond

// Spinner animates a progress message on one terminal line. Start and Stop
// may be called from any goroutine; the message can change mid-run (imports
// move from fetching to extracting).
type Spinner struct {
	frames  []string
	delay   time.Duration
	writer  io.Writer
	active  bool
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	message string
	wg      sync.WaitGroup
}

// New creates a spinner writing to writer with an initial message. ctx
// cancellation stops the animation goroutine.
func New(ctx context.Context, writer io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		frames:  frames,
		delay:   frameDelay,
		writer:  writer,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
	}
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return
	}
	s.active = true

	s.wg.Add(1)
	go s.animate()
}

// Stop halts the animation and clears the spinner line. Calling Stop on a
// stopped spinner is a no-op.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	// erase the line on a real terminal; redirected output only gets a
	// carriage return so logs stay clean
	if f, ok := s.writer.(*os.File); ok && isTerminal(f) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

// IsActive reports whether the spinner is currently animating.
func (s *Spinner) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// UpdateMessage replaces the message shown next to the animation.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// animate redraws the spinner line on every tick until cancelled.
func (s *Spinner) animate() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			glyph := s.frames[frame%len(s.frames)]
			message := s.message
			s.mu.RUnlock()

			fmt.Fprintf(s.writer, "\r%s %s", glyph, message)
		}
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
