package faculty

// GroupingIndex groups records by the value of one key, keeping both the
// per-id row order and the order in which ids were first seen.
type GroupingIndex struct {
	groups map[string][]Record
	order  []string
}

// NewGroupingIndex builds an index over records keyed by key. Records without
// the key group under "".
func NewGroupingIndex(records []Record, key string) *GroupingIndex {
	idx := &GroupingIndex{groups: make(map[string][]Record)}
	for _, record := range records {
		id := record[key]
		if _, seen := idx.groups[id]; !seen {
			idx.order = append(idx.order, id)
		}
		idx.groups[id] = append(idx.groups[id], record)
	}
	return idx
}

// Get returns the records for id in source order. The result is never nil.
func (g *GroupingIndex) Get(id string) []Record {
	records := g.groups[id]
	if len(records) == 0 {
		return []Record{}
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// First returns the first record for id.
func (g *GroupingIndex) First(id string) (Record, bool) {
	records := g.groups[id]
	if len(records) == 0 {
		return nil, false
	}
	return records[0], true
}

// Has reports whether any record carries id.
func (g *GroupingIndex) Has(id string) bool {
	_, ok := g.groups[id]
	return ok
}

// IDs returns the distinct ids in first-seen order.
func (g *GroupingIndex) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of distinct ids.
func (g *GroupingIndex) Len() int {
	return len(g.order)
}
