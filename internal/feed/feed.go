// Package feed holds the bounded in-memory activity feeds a process shows
// to its presentation layer: the general log sink and the received-offers
// feed. They stand in for the log and offers panels of the desktop UI.
package feed

import (
	"log"
	"sync"
)

type Feed struct {
	mu    sync.Mutex
	max   int
	lines []string
}

// New creates a feed keeping at most max lines; older lines are dropped.
func New(max int) *Feed {
	if max <= 0 {
		max = 200
	}
	return &Feed{max: max}
}

// Append records a line and mirrors it to the process log.
func (f *Feed) Append(line string) {
	log.Printf("📋 %s", line)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, line)
	if len(f.lines) > f.max {
		f.lines = f.lines[len(f.lines)-f.max:]
	}
}

// Lines returns a copy of the retained lines, oldest first.
func (f *Feed) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}
