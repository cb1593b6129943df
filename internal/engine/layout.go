package engine

import "fmt"

type layoutEntry struct {
	offset int
	size   int
	active bool
}

// Layout partitions one flat vector into contiguous per-tag ranges. It is
// computed once before integration and read-only thereafter; the tag order
// given to Configure is authoritative.
type Layout struct {
	entries [TagCount]layoutEntry
	order   []Tag
	total   int
}

func NewLayout() *Layout {
	return &Layout{}
}

// Configure resets the layout, then assigns each listed tag the next
// contiguous offset using the registered block's current Size. A listed but
// unregistered tag is a configuration error.
func (l *Layout) Configure(reg *Registry, ordered []Tag) error {
	l.entries = [TagCount]layoutEntry{}
	l.order = nil
	l.total = 0

	for _, tag := range ordered {
		b, err := reg.Get(tag)
		if err != nil {
			return fmt.Errorf("layout: %w", err)
		}
		l.entries[tag] = layoutEntry{offset: l.total, size: b.Size(), active: true}
		l.order = append(l.order, tag)
		l.total += b.Size()
	}
	return nil
}

// Active reports whether tag was included in Configure's ordering.
func (l *Layout) Active(tag Tag) bool {
	return tag.Valid() && l.entries[tag].active
}

// Offset returns the flat-vector offset of tag's range.
func (l *Layout) Offset(tag Tag) (int, error) {
	if !l.Active(tag) {
		return 0, fmt.Errorf("%w: %s", ErrInactiveTag, tag)
	}
	return l.entries[tag].offset, nil
}

// BlockSize returns the size recorded for tag at configuration time.
func (l *Layout) BlockSize(tag Tag) (int, error) {
	if !l.Active(tag) {
		return 0, fmt.Errorf("%w: %s", ErrInactiveTag, tag)
	}
	return l.entries[tag].size, nil
}

// TotalSize returns the flat-vector dimension.
func (l *Layout) TotalSize() int { return l.total }

// Order returns the authoritative tag ordering. The slice is a copy; the
// ordering cannot be changed after Configure.
func (l *Layout) Order() []Tag {
	return append([]Tag(nil), l.order...)
}

// slice returns the sub-range of v belonging to tag.
func (l *Layout) slice(v []float64, tag Tag) []float64 {
	e := l.entries[tag]
	return v[e.offset : e.offset+e.size]
}
