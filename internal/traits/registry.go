package traits

// ID is the stable identifier of a trait within a Registry. IDs follow the
// column order of the dataset the registry was built from.
type ID int

// Registry is the ordered, immutable trait universe of a loaded dataset.
type Registry struct {
	names []string
	index map[string]ID
}

// NewRegistry builds a registry from trait names in order. Duplicate names
// keep the first position.
func NewRegistry(names []string) *Registry {
	r := &Registry{index: make(map[string]ID, len(names))}
	for _, n := range names {
		if _, ok := r.index[n]; ok {
			continue
		}
		r.index[n] = ID(len(r.names))
		r.names = append(r.names, n)
	}
	return r
}

func (r *Registry) Len() int { return len(r.names) }

// Names returns a copy of the trait names in ID order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Name returns the name of id, or "" if id is out of range.
func (r *Registry) Name(id ID) string {
	if int(id) < 0 || int(id) >= len(r.names) {
		return ""
	}
	return r.names[id]
}

func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.index[name]
	return id, ok
}
