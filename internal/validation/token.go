package validation

import (
	"strconv"
	"sync"
	"time"
)

// SlugTokenSource produces the suffix appended to a colliding slug.
type SlugTokenSource interface {
	Next() string
}

type timeTokenSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewTimeTokenSource returns a SlugTokenSource yielding unix-millisecond
// tokens. Tokens are strictly increasing within the process even when the
// clock has not advanced between calls.
func NewTimeTokenSource() SlugTokenSource {
	return &timeTokenSource{now: time.Now}
}

func (s *timeTokenSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return strconv.FormatInt(ms, 10)
}

// SequenceTokenSource yields "1", "2", ... and is meant for deterministic tests
// and fixtures.
type SequenceTokenSource struct {
	mu sync.Mutex
	n  int
}

func (s *SequenceTokenSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return strconv.Itoa(s.n)
}
