package emitter

import "reflect"

// registry holds the entries of one namespace. It is guarded by the
// emitter's lock and never invokes listeners.
type registry struct {
	buckets map[bucketKey][]*entry
	order   []bucketKey
}

func newRegistry() *registry {
	return &registry{buckets: make(map[bucketKey][]*entry)}
}

func (r *registry) add(e *entry) {
	if _, ok := r.buckets[e.key]; !ok {
		r.order = append(r.order, e.key)
	}
	r.buckets[e.key] = append(r.buckets[e.key], e)
}

// removeIf drops matching entries and returns how many were removed.
// Buckets are rebuilt so snapshots taken earlier stay intact.
func (r *registry) removeIf(match func(*entry) bool) int {
	removed := 0
	order := r.order[:0]
	for _, key := range r.order {
		bucket := r.buckets[key]
		kept := make([]*entry, 0, len(bucket))
		for _, e := range bucket {
			if match(e) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(r.buckets, key)
			continue
		}
		r.buckets[key] = kept
		order = append(order, key)
	}
	r.order = order
	return removed
}

func (r *registry) removeEntry(target *entry) bool {
	if _, ok := r.buckets[target.key]; !ok {
		return false
	}
	return r.removeIf(func(e *entry) bool { return e == target }) > 0
}

func (r *registry) empty() bool {
	return len(r.buckets) == 0
}

// collect returns a fresh slice of the candidates for an emission: scope
// listeners along chain, then the exact type along chain, then the unscoped
// listeners of each ancestor.
func (r *registry) collect(types []reflect.Type, chain []string) []*entry {
	out := r.chain(nil, chain)
	out = append(out, r.chain(types[0], chain)...)
	for _, ancestor := range types[1:] {
		out = append(out, r.buckets[bucketKey{eventType: ancestor}]...)
	}
	return out
}

// chain returns the entries of one kind of bucket along a scope chain.
func (r *registry) chain(eventType reflect.Type, chain []string) []*entry {
	var out []*entry
	for _, s := range chain {
		out = append(out, r.buckets[bucketKey{eventType: eventType, scope: s}]...)
	}
	return out
}

// entries returns every matching entry in bucket creation order.
func (r *registry) entries(match func(*entry) bool) []*entry {
	var out []*entry
	for _, key := range r.order {
		for _, e := range r.buckets[key] {
			if match == nil || match(e) {
				out = append(out, e)
			}
		}
	}
	return out
}
