package cache

import "golang.org/x/sync/singleflight"

// RequestGate coalesces concurrent identical requests in front of the
// cache, per spec.md §9: "If coalescing of in-flight requests is desired,
// add a per-key single-flight gate in front of the cache, never inside it."
// It wraps the coordinator's whole check-cache/fetch-upstream/write-cache
// pipeline, not the Store itself — two callers racing for the same key
// collapse into one upstream fetch, and both receive the same result.
type RequestGate struct {
	group singleflight.Group
}

// NewRequestGate creates an empty gate.
func NewRequestGate() *RequestGate {
	return &RequestGate{}
}

// Do runs fn for key, sharing the in-flight call (and its result) across
// any other Do call for the same key that arrives before fn returns.
func (g *RequestGate) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	value, err, _ := g.group.Do(key, fn)
	return value, err
}
