// Package timing measures how long the phases of a long command take.
package timing

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Timer tracks durations of named phases.
type Timer struct {
	title  string
	now    func() time.Time
	start  time.Time
	last   time.Time
	phases []Phase
}

// Phase is a named step and how long it took.
type Phase struct {
	Name     string
	Duration time.Duration
}

// New creates a Timer starting from now. title heads the report.
func New(title string) *Timer {
	return newWithClock(title, time.Now)
}

func newWithClock(title string, now func() time.Time) *Timer {
	start := now()
	return &Timer{title: title, now: now, start: start, last: start}
}

// Mark records a phase ending now, lasting since the previous mark or
// since the timer was created.
func (t *Timer) Mark(name string) {
	now := t.now()
	t.phases = append(t.phases, Phase{Name: name, Duration: now.Sub(t.last)})
	t.last = now
}

// Total returns the elapsed time since the timer was created.
func (t *Timer) Total() time.Duration {
	return t.now().Sub(t.start)
}

// Phases returns all recorded phases.
func (t *Timer) Phases() []Phase {
	return t.phases
}

// Report prints the phases and the total to w.
func (t *Timer) Report(w io.Writer) {
	header := "=== " + t.title + " ==="
	fmt.Fprintln(w)
	fmt.Fprintln(w, header)
	for _, p := range t.phases {
		fmt.Fprintf(w, "  %-20s %s\n", p.Name+":", formatDuration(p.Duration))
	}
	fmt.Fprintf(w, "  %-20s %s\n", "TOTAL:", formatDuration(t.Total()))
	fmt.Fprintln(w, strings.Repeat("=", len(header)))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
