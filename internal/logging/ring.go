package logging

import (
	"strings"
	"sync"
)

// Ring keeps the most recent log lines in memory. It implements
// zapcore.WriteSyncer.
type Ring struct {
	mu    sync.Mutex
	lines []string
	max   int
	seq   uint64
}

func NewRing(max int) *Ring {
	if max <= 0 {
		max = 200
	}
	return &Ring{max: max}
}

func (r *Ring) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		r.lines = append(r.lines, line)
	}
	if over := len(r.lines) - r.max; over > 0 {
		r.lines = append([]string(nil), r.lines[over:]...)
	}
	r.seq++
	return len(p), nil
}

func (r *Ring) Sync() error { return nil }

// Lines returns a copy of the buffered lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Tail returns at most n of the newest lines.
func (r *Ring) Tail(n int) []string {
	lines := r.Lines()
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Seq increases on every write; renderers use it to detect new output.
func (r *Ring) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}
