package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerStyle  = lipgloss.NewStyle().Foreground(colorProcess)
)

const spinnerTick = 100 * time.Millisecond

// spinner animates a one-line status on w while a sheet loads or a batch
// renders. The message can change while it runs; Stop and the summary
// methods are safe to call more than once.
type spinner struct {
	ctx context.Context
	w   io.Writer

	mu      sync.Mutex
	msg     string
	drawn   int // rune width of the line on screen
	started bool

	stop     chan struct{}
	finished chan struct{}
	once     sync.Once
}

// newSpinner creates a spinner that also stops when ctx ends.
func newSpinner(ctx context.Context, w io.Writer, format string, args ...any) *spinner {
	return &spinner{
		ctx:      ctx,
		w:        w,
		msg:      fmt.Sprintf(format, args...),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start begins drawing.
func (s *spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.finished)
		t := time.NewTicker(spinnerTick)
		defer t.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.stop:
				return
			case <-s.ctx.Done():
				s.clear()
				return
			case <-t.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Update replaces the message shown next to the spinner.
func (s *spinner) Update(format string, args ...any) {
	s.mu.Lock()
	s.msg = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

// Message returns the current message.
func (s *spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}

// Pause clears the line and runs fn without the spinner drawing over its
// output.
func (s *spinner) Pause(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	fn()
}

// Stop halts the animation and clears the line.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.finished
		}
		s.clear()
	})
}

// Loaded stops the spinner and reports how many technologies a sheet holds
// and whether the download came from the cache.
func (s *spinner) Loaded(src string, technologies int, cached bool) {
	s.Stop()
	fmt.Fprintln(s.w, loadSummary(src, technologies, cached))
}

// Cancelled reports whether ctx ended before Stop.
func (s *spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func loadSummary(src string, technologies int, cached bool) string {
	line := statusLine(statusOK, "Loaded %s from %s", plural(technologies, "technology"), src)
	if cached {
		line += " " + StyleDim.Render("(cached)")
	}
	return line
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	line := frame + " " + s.msg
	fmt.Fprint(s.w, "\r"+spinnerStyle.Render(frame)+" "+StyleDim.Render(s.msg))
	s.drawn = len([]rune(line))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *spinner) clearLocked() {
	if s.drawn == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	s.drawn = 0
}
