package engine

import "fmt"

// Accumulator holds one write buffer per tag collecting additive derivative
// contributions. Buffers are configured once, cleared at the start of every
// evaluation, and only ever written through AddTo between clears.
type Accumulator struct {
	buffers [TagCount][]float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Configure (re)allocates a zero-filled buffer of size doubles for tag.
// Calling it again replaces the prior configuration, size included.
func (a *Accumulator) Configure(tag Tag, size int) error {
	if !tag.Valid() {
		return fmt.Errorf("%w: tag %d", ErrUnconfigured, int(tag))
	}
	if size < 0 {
		return fmt.Errorf("engine: negative accumulator size %d for %s", size, tag)
	}
	a.buffers[tag] = make([]float64, size)
	return nil
}

// Configured reports whether tag has a buffer.
func (a *Accumulator) Configured(tag Tag) bool {
	return tag.Valid() && a.buffers[tag] != nil
}

// AddTo adds value to component i of tag's buffer. Accumulation only; the
// prior contents are never overwritten.
func (a *Accumulator) AddTo(tag Tag, i int, value float64) error {
	if !a.Configured(tag) {
		return fmt.Errorf("%w: %s", ErrUnconfigured, tag)
	}
	buf := a.buffers[tag]
	if i < 0 || i >= len(buf) {
		return fmt.Errorf("%w: %s[%d], size %d", ErrIndexRange, tag, i, len(buf))
	}
	buf[i] += value
	return nil
}

// Block returns the live buffer for tag.
func (a *Accumulator) Block(tag Tag) ([]float64, error) {
	if !a.Configured(tag) {
		return nil, fmt.Errorf("%w: %s", ErrUnconfigured, tag)
	}
	return a.buffers[tag], nil
}

// Clear zeroes every configured buffer, keeping sizes and configuration.
func (a *Accumulator) Clear() {
	for tag := range a.buffers {
		buf := a.buffers[tag]
		for i := range buf {
			buf[i] = 0
		}
	}
}
