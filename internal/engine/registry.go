package engine

import "fmt"

// Registry maps tags to state blocks. It owns nothing: the application
// creates and sizes the blocks, and they must outlive the registry.
type Registry struct {
	blocks [TagCount]Block
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores a reference for tag, overwriting any prior registration.
func (r *Registry) Register(tag Tag, b Block) {
	if !tag.Valid() {
		panic(fmt.Sprintf("engine: Register with invalid tag %d", int(tag)))
	}
	r.blocks[tag] = b
}

// Get returns the block registered for tag.
func (r *Registry) Get(tag Tag) (Block, error) {
	if !tag.Valid() || r.blocks[tag] == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredTag, tag)
	}
	return r.blocks[tag], nil
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag Tag) bool {
	return tag.Valid() && r.blocks[tag] != nil
}

// MustGet is Get for wiring code that has already validated registration.
func (r *Registry) MustGet(tag Tag) Block {
	b, err := r.Get(tag)
	if err != nil {
		panic(err)
	}
	return b
}
