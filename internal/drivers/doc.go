// Package drivers contains the physics units that contribute to the
// right-hand side: magnetic-dipole spin-down, passive cooling, chemical
// imbalance evolution, and an optional exotic-particle channel.
//
// Each driver declares the tags it reads and writes and adds into the shared
// accumulator; none mutates the state or the context. Drivers that implement
// [engine.Diagnoser] compute their reported scalars with the same helpers
// the RHS path uses.
package drivers
