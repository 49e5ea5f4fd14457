package document

// Merge deep-merges overlay onto base. When both values are maps their
// entries are merged key by key; in every other case overlay replaces base.
// Neither argument is modified.
func Merge(base, overlay Value) Value {
	if !base.IsMap() || !overlay.IsMap() {
		return overlay
	}

	out := base
	for _, k := range overlay.keys {
		next := overlay.index[k]
		if prev, ok := base.index[k]; ok {
			next = Merge(prev, next)
		}
		out = out.Set(k, next)
	}
	return out
}

// MergeAll folds docs left to right with Merge, starting from an empty map.
func MergeAll(docs ...Value) Value {
	out := NewMap()
	for _, d := range docs {
		out = Merge(out, d)
	}
	return out
}
