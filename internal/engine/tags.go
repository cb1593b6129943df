package engine

// Tag names one physical sub-state of the evolved system. The set is closed:
// TagCount sizes the fixed internal tables in Layout and Accumulator.
type Tag int

const (
	// Spin is the rotational state (angular frequency).
	Spin Tag = iota
	// Thermal is the redshifted internal temperature state.
	Thermal
	// Chemical holds the chemical imbalance variables.
	Chemical
	// Exotic holds the exotic-particle abundance.
	Exotic

	TagCount
)

var tagNames = [TagCount]string{
	Spin:     "spin",
	Thermal:  "thermal",
	Chemical: "chemical",
	Exotic:   "exotic",
}

func (t Tag) String() string {
	if t < 0 || t >= TagCount {
		return "invalid"
	}
	return tagNames[t]
}

// Valid reports whether t names a real sub-state.
func (t Tag) Valid() bool { return t >= 0 && t < TagCount }

// AllTags returns every tag in declaration order.
func AllTags() []Tag {
	tags := make([]Tag, TagCount)
	for i := range tags {
		tags[i] = Tag(i)
	}
	return tags
}
