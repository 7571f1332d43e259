package core

// CompiledEntry is one published value with the original it falls back to.
type CompiledEntry struct {
	Original string `json:"original"`
	Value    string `json:"value"`
}

// CompiledLocale is the flat runtime lookup for one locale.
type CompiledLocale struct {
	Locale string
	// Entries holds one entry per snapshot key.
	Entries map[string]CompiledEntry
	// URLs maps every known page to its translated URL.
	URLs map[string]CompiledEntry
}

// Translated returns the number of entries whose value differs from the
// original fallback.
func (c *CompiledLocale) Translated() int {
	n := 0
	for _, e := range c.Entries {
		if e.Value != e.Original {
			n++
		}
	}
	return n
}
