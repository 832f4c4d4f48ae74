package storage

import "github.com/go-pdfkit/pdfcore/objects"

// Ref is a typed, identity-preserving handle onto an indirect object
// (spec.md §4.4's `Ref<T>`): the model package's Catalog/Page/etc. hold
// Ref[T] fields instead of bare objects.Reference so Get stays type-safe
// and two Ref[T] values for the same (number, generation) always resolve
// to the same cached *T.
type Ref[T any] struct {
	objects.Reference
}

// NewRef wraps a raw indirect reference as a typed Ref, for callers (the
// model package) translating a parsed Dict field into a typed pointer.
func NewRef[T any](r objects.Reference) Ref[T] { return Ref[T]{r} }

// Decodable is implemented by *T for every typed record T the model
// package defines: it fills itself in from a resolved Primitive,
// resolving any nested Ref fields via s as needed.
type Decodable interface {
	DecodeFrom(p objects.Primitive, s *Storage) error
}

// Encodable is implemented by *T for every typed record T the model
// package defines: it renders itself back to a Primitive suitable for
// writing, allocating Refs for any newly-created nested objects via s.
type Encodable interface {
	EncodeTo(s *Storage) (objects.Primitive, error)
}

// Get implements spec.md §4.4's get<T>(ref): resolve and type the object
// the ref points at, returning the cached instance on repeat access. PT
// is the *T method-set constraint trick that lets a generic function
// construct a zero T and call pointer-receiver methods on it. Unlike
// Create/Update/Fulfill, PT appears nowhere in Get's parameters, so type
// inference can't recover it from an argument: callers must instantiate
// both type arguments explicitly, e.g. Get[model.Page, *model.Page](s, ref).
func Get[T any, PT interface {
	*T
	Decodable
}](s *Storage, ref Ref[T]) (PT, error) {
	key := cacheKey{ref.Number, ref.Generation}
	if e, ok := s.cache.get(key); ok {
		if e.err != nil {
			return nil, e.err
		}
		// The cache is shared with Resolve, which stores Primitives: only
		// a value of the requested type is a hit.
		if v, ok := e.value.(PT); ok {
			return v, nil
		}
	}

	prim, err := s.Resolve(ref.Reference)
	if err != nil {
		s.cache.set(key, cacheEntry{err: err})
		return nil, err
	}

	var zero T
	val := PT(&zero)
	if err := val.DecodeFrom(prim, s); err != nil {
		s.cache.set(key, cacheEntry{err: err})
		return nil, err
	}
	s.cache.set(key, cacheEntry{value: val})
	return val, nil
}

// Create implements spec.md §4.4's create<T>(value): allocate the next
// free object number and register value as a pending write under it.
func Create[T any, PT interface {
	*T
	Encodable
}](s *Storage, value PT) (Ref[T], error) {
	prim, err := value.EncodeTo(s)
	if err != nil {
		return Ref[T]{}, err
	}
	num, gen := s.mu.allocate()
	s.mu.generation[num] = gen
	s.mu.pending[num] = PendingWrite{Value: prim, Generation: gen}

	ref := Ref[T]{objects.Reference{Number: num, Generation: gen}}
	s.cache.set(cacheKey{num, gen}, cacheEntry{value: PT(value)})
	return ref, nil
}

// Update implements spec.md §4.4's update<T>(ref, value): same object
// number, generation incremented, old cache entry invalidated.
func Update[T any, PT interface {
	*T
	Encodable
}](s *Storage, ref Ref[T], value PT) (Ref[T], error) {
	prim, err := value.EncodeTo(s)
	if err != nil {
		return Ref[T]{}, err
	}

	newGen := s.mu.generation[ref.Number] + 1
	s.mu.generation[ref.Number] = newGen
	s.mu.pending[ref.Number] = PendingWrite{Value: prim, Generation: newGen}

	s.cache.invalidate(cacheKey{ref.Number, ref.Generation})
	newRef := Ref[T]{objects.Reference{Number: ref.Number, Generation: newGen}}
	s.cache.set(cacheKey{ref.Number, newGen}, cacheEntry{value: PT(value)})
	return newRef, nil
}
