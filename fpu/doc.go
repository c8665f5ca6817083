// Package fpu implements a bit-exact software model of an x87-style
// extended precision floating point unit.
//
// The unit consists of an eight slot register stack addressed relative to a
// three bit top pointer, a tag per slot, a control word (rounding mode,
// precision, exception masks) and a status word (condition codes C0-C3,
// sticky exception flags). Arithmetic is carried out on 64-bit significands
// with integer arithmetic only, and rounded once per operation.
//
// All state lives in an Fpu value. Independent Fpu values share nothing, so
// one per emulated execution context is enough to run contexts concurrently;
// a single Fpu must not be used from two goroutines at once.
package fpu
