package engine

import "fmt"

// Pack copies every active block into the flat vector y according to the
// layout. A block whose Size no longer matches the layout was resized after
// Configure and fails loudly rather than silently truncating.
func Pack(reg *Registry, l *Layout, y []float64) error {
	if len(y) < l.TotalSize() {
		return fmt.Errorf("%w: flat vector has %d, layout needs %d",
			ErrSizeMismatch, len(y), l.TotalSize())
	}
	for _, tag := range l.order {
		b, err := reg.Get(tag)
		if err != nil {
			return err
		}
		size, _ := l.BlockSize(tag)
		if b.Size() != size {
			return fmt.Errorf("%w: %s is %d, layout recorded %d",
				ErrSizeMismatch, tag, b.Size(), size)
		}
		if size == 0 {
			continue
		}
		if err := b.PackTo(l.slice(y, tag)); err != nil {
			return err
		}
	}
	return nil
}

// Unpack copies the flat vector y into every active block, with the same
// size revalidation as Pack.
func Unpack(reg *Registry, l *Layout, y []float64) error {
	if len(y) < l.TotalSize() {
		return fmt.Errorf("%w: flat vector has %d, layout needs %d",
			ErrSizeMismatch, len(y), l.TotalSize())
	}
	for _, tag := range l.order {
		b, err := reg.Get(tag)
		if err != nil {
			return err
		}
		size, _ := l.BlockSize(tag)
		if b.Size() != size {
			return fmt.Errorf("%w: %s is %d, layout recorded %d",
				ErrSizeMismatch, tag, b.Size(), size)
		}
		if size == 0 {
			continue
		}
		if err := b.UnpackFrom(l.slice(y, tag)); err != nil {
			return err
		}
	}
	return nil
}
