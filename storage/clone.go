package storage

// Clone returns a read-only view over the same backing bytes, xref
// table, cipher and caches as s (spec.md §5 "Sharing": concurrent
// readers may share a Storage's decoded-object cache so long as none of
// them mutate it). The clone's mu is nil, so Create/Update/Promise/
// Fulfill/Save on it panic via a nil-pointer dereference rather than silently
// corrupting the original's pending-write set — callers that need to
// mutate must use the original Storage.
func (s *Storage) Clone() *Storage {
	return &Storage{
		data:       s.data,
		xref:       s.xref,
		trailer:    s.trailer,
		cipher:     s.cipher,
		filters:    s.filters,
		cache:      s.cache,
		streams:    s.streams,
		logger:     s.logger,
		allowFixup: s.allowFixup,
	}
}
