// Package ids provides the id generation services injected into the editors.
package ids

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Generator issues identifiers that are unique for the lifetime of the generator.
type Generator interface {
	NewID(prefix string) string
}

// GeneratorFunc adapts a function into a Generator.
type GeneratorFunc func(prefix string) string

// NewID satisfies Generator.
func (fn GeneratorFunc) NewID(prefix string) string {
	return fn(prefix)
}

// UUIDGenerator issues random UUIDv4 based ids, optionally prefixed.
type UUIDGenerator struct{}

// NewID satisfies Generator.
func (UUIDGenerator) NewID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// Sequence issues monotonically increasing ids per prefix ("node-1", "node-2", ...).
// It is safe for concurrent use.
type Sequence struct {
	mu   sync.Mutex
	next map[string]uint64
}

// NewSequence builds an empty sequence generator.
func NewSequence() *Sequence {
	return &Sequence{next: map[string]uint64{}}
}

// NewID satisfies Generator.
func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == nil {
		s.next = map[string]uint64{}
	}
	s.next[prefix]++
	n := strconv.FormatUint(s.next[prefix], 10)
	if prefix == "" {
		return n
	}
	return prefix + "-" + n
}

// Normalize returns gen or a UUIDGenerator when gen is nil.
func Normalize(gen Generator) Generator {
	if gen == nil {
		return UUIDGenerator{}
	}
	return gen
}
