package reconcile

import "github.com/agentstation/envinject/pkg/entry"

// Index maps declaration names to the declaration that wins for that name.
// When a name is declared more than once the last declaration wins.
type Index struct {
	byName map[string]entry.Declaration
}

// NewIndex builds an Index from declarations in manifest order.
func NewIndex(decls []entry.Declaration) *Index {
	idx := &Index{byName: make(map[string]entry.Declaration, len(decls))}
	for _, d := range decls {
		idx.byName[d.Name] = d
	}
	return idx
}

// Lookup returns the winning declaration for name.
func (idx *Index) Lookup(name string) (entry.Declaration, bool) {
	d, ok := idx.byName[name]
	return d, ok
}

// Len returns the number of distinct declared names.
func (idx *Index) Len() int {
	return len(idx.byName)
}
