package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TimingCollector builds a tree of timed operations that can be reported as
// a nested view.
type TimingCollector struct {
	mu      sync.Mutex
	root    *span
	current *span
}

// span is a single timed operation in the tree.
type span struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *span
	children []*span
}

// NewTimingCollector creates an empty timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation. The first timer started becomes the
// root; later timers nest under the currently running one.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: time.Now()}
	if c.root == nil {
		c.root = s
	} else {
		s.parent = c.current
		c.current.children = append(c.current.children, s)
	}
	c.current = s

	return &timingTimer{collector: c, span: s}
}

// Report writes the timing tree to w:
//
//	check main.book: 12ms
//	├─ load: 9ms
//	│  ├─ parse: 4ms
//	│  └─ build: 5ms
//	└─ report: 2ms
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", c.root.name, formatDuration(c.root.duration()))
	for i, child := range c.root.children {
		writeSpan(w, child, "", i == len(c.root.children)-1)
	}
}

func (s *span) duration() time.Duration {
	if s.end.IsZero() {
		return time.Since(s.start)
	}
	return s.end.Sub(s.start)
}

func writeSpan(w io.Writer, s *span, prefix string, last bool) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}
	_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, s.name, formatDuration(s.duration()))

	for i, child := range s.children {
		writeSpan(w, child, prefix+extension, i == len(s.children)-1)
	}
}

// formatDuration shows milliseconds below one second, seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}

type timingTimer struct {
	collector *TimingCollector
	span      *span
}

// End stops the timer and returns the collector's cursor to the parent.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.span.end = time.Now()
	if t.span.parent != nil {
		t.collector.current = t.span.parent
	}
}

// Child creates a timer nested under this one, regardless of which timer is
// currently running.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	s := &span{name: name, start: time.Now(), parent: t.span}
	t.span.children = append(t.span.children, s)
	t.collector.current = s

	return &timingTimer{collector: t.collector, span: s}
}
