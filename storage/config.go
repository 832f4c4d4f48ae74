package storage

// CacheStrategyKind selects how aggressively Storage retains decoded
// primitives and stream payloads across resolutions.
type CacheStrategyKind uint8

const (
	// CacheUnbounded never evicts; suitable for short-lived processes that
	// read a file once and convert it.
	CacheUnbounded CacheStrategyKind = iota
	// CacheNone re-parses on every resolve; useful for memory-constrained
	// one-shot scans (e.g. repair) where caching would be wasted work.
	CacheNone
	// CacheBounded evicts the least-recently-used entry once the cache
	// holds more than N values.
	CacheBounded
)

// CacheStrategy configures Storage's decoded-object and decoded-stream
// caches (spec.md §4.4's cache, generalized to the three modes
// SPEC_FULL.md §4.5 calls for).
type CacheStrategy struct {
	Kind CacheStrategyKind
	N    int // only meaningful when Kind == CacheBounded
}

// Config holds the open-time options that control tolerance for
// non-conformant input and caching behavior, in the spirit of the
// teacher's reader/file.Configuration.
type Config struct {
	// AllowMissingEndobj enables stream /Length recovery: when the
	// declared /Length does not land on "endstream", the parser rescans
	// for it instead of failing. The "endobj" keyword after an indirect
	// object body is never checked, with or without this flag.
	AllowMissingEndobj bool

	// AllowInvalidXref falls back to repair (scanning for "n g obj"
	// markers) whenever xref parsing or Root resolution fails, instead of
	// returning the error to the caller.
	AllowInvalidXref bool

	// Cache selects the decoded-value cache strategy. The zero value is
	// CacheUnbounded.
	Cache CacheStrategy

	// Password is tried as both the user and owner password when the
	// document is encrypted with the standard security handler.
	Password string
}
