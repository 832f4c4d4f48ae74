package storage

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// Promise is a pre-allocated object number not yet bound to a value
// (spec.md §4.4's `promise<T>()`), used to break reference cycles at
// creation time: reserve the parent's id, build children that hold a
// Ref pointing at it, then Fulfill the parent.
type Promise[T any] struct {
	number     uint32
	generation uint16
	bound      bool
}

// NewPromise reserves the next free object number without writing
// anything under it yet.
func NewPromise[T any](s *Storage) Promise[T] {
	num, gen := s.mu.allocate()
	s.mu.promises[num] = true
	return Promise[T]{number: num, generation: gen}
}

// Ref returns the typed reference this promise will resolve to once
// fulfilled. Children may hold this Ref immediately, before the parent
// exists.
func (p Promise[T]) Ref() Ref[T] {
	return Ref[T]{objects.Reference{Number: p.number, Generation: p.generation}}
}

// Fulfill implements spec.md §4.4's fulfill<T>(promise, value): binds
// the reserved object number to value and converts the promise into a
// concrete Ref[T]. Fulfilling an already-fulfilled or unknown promise is
// an error (it indicates a logic bug in the caller, not a recoverable
// document condition).
func Fulfill[T any, PT interface {
	*T
	Encodable
}](s *Storage, p *Promise[T], value PT) (Ref[T], error) {
	if p.bound || !s.mu.promises[p.number] {
		return Ref[T]{}, pdferr.New(pdferr.Other, "fulfill called on an unknown or already-fulfilled promise (object %d)", p.number)
	}

	prim, err := value.EncodeTo(s)
	if err != nil {
		return Ref[T]{}, err
	}

	delete(s.mu.promises, p.number)
	p.bound = true
	s.mu.generation[p.number] = p.generation
	s.mu.pending[p.number] = PendingWrite{Value: prim, Generation: p.generation}
	s.cache.set(cacheKey{p.number, p.generation}, cacheEntry{value: PT(value)})

	return p.Ref(), nil
}

// OpenPromises reports how many promises created on s remain unbound;
// save(trailer) must refuse to proceed while this is non-zero
// (UnfulfilledPromise, spec.md §4.4).
func (s *Storage) OpenPromises() int { return len(s.mu.promises) }
