package ident

// Interner assigns a dense Handle (0, 1, 2, …) to each distinct name by
// first occurrence, the "intern" operation of spec section 4.3. It lives
// in this leaf package — rather than on the environment itself — so the
// parser's lowering pass can mint handles without importing the
// environment package (which in turn needs function values, which hold a
// reference back into the parser's statement tree).
type Interner struct {
	index map[string]Handle
	names []string
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{index: make(map[string]Handle)}
}

// Intern returns the existing handle for name, or assigns the next free
// one.
func (in *Interner) Intern(name string) Handle {
	if h, ok := in.index[name]; ok {
		return h
	}
	h := Handle(len(in.names))
	in.index[name] = h
	in.names = append(in.names, name)
	return h
}

// Len is the number of distinct handles minted so far.
func (in *Interner) Len() int { return len(in.names) }

// Name returns the source name a handle was interned from, for
// diagnostics.
func (in *Interner) Name(h Handle) string {
	if int(h) < 0 || int(h) >= len(in.names) {
		return "?"
	}
	return in.names[h]
}
