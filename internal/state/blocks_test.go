package state

import (
	"errors"
	"math"
	"testing"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
)

func TestBlocksSatisfyInterface(t *testing.T) {
	blocks := []engine.Block{
		NewRotation(), NewThermal(), NewChemical(), NewExotic(),
	}
	wantSizes := []int{1, 1, 2, 1}
	for i, b := range blocks {
		if b.Size() != wantSizes[i] {
			t.Errorf("block %d size = %d, want %d", i, b.Size(), wantSizes[i])
		}
	}
}

func TestNamedAccessors(t *testing.T) {
	r := NewRotation()
	r.SetOmega(100)
	if r.Omega() != 100 || r.Data()[0] != 100 {
		t.Error("Omega accessor must alias the buffer")
	}

	c := NewChemical()
	c.SetEtaNpe(1e-5)
	c.SetEtaNpmu(2e-5)
	if c.Data()[0] != 1e-5 || c.Data()[1] != 2e-5 {
		t.Errorf("chemical buffer = %v", c.Data())
	}
}

func TestClearKeepsCapacity(t *testing.T) {
	th := NewThermal()
	th.SetTInf(1e9)
	th.Clear()
	if th.Size() != 1 || th.TInf() != 0 {
		t.Errorf("after clear: size=%d TInf=%v", th.Size(), th.TInf())
	}
}

func TestSanityCheck(t *testing.T) {
	r := NewRotation()
	r.SetOmega(100)
	if !r.SanityCheck() {
		t.Error("finite block should pass")
	}
	r.SetOmega(math.NaN())
	if r.SanityCheck() {
		t.Error("NaN component should fail")
	}
}

func TestPackRoundTrip(t *testing.T) {
	c := NewChemical()
	c.SetEtaNpe(3)
	c.SetEtaNpmu(-4)

	buf := make([]float64, 2)
	if err := c.PackTo(buf); err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	c2 := NewChemical()
	if err := c2.UnpackFrom(buf); err != nil {
		t.Fatalf("unpack failed: %v", err)
	}
	if c2.EtaNpe() != 3 || c2.EtaNpmu() != -4 {
		t.Errorf("round trip gave %v", c2.Data())
	}
}

func TestPackBeforeResize(t *testing.T) {
	var r Rotation // zero value, never sized
	if err := r.PackTo(make([]float64, 1)); !errors.Is(err, engine.ErrNotSized) {
		t.Errorf("got %v, want ErrNotSized", err)
	}
}
