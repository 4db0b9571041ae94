// Package fst implements a compact, byte-serialized, acyclic finite state
// transducer: an automaton that maps sequences of input labels (bytes,
// 16-bit units, or 32-bit codepoints) to an output value drawn from a
// caller-supplied monoid.
//
// A Builder accepts (input, output) pairs in sorted input order and drives
// a NodeEncoder that packs nodes into a ByteStore, writing in reverse so
// that target pointers can often be elided. An ArcReader walks the same
// byte stream forward from any state to recover arcs, look up an exact
// input, or enumerate outgoing labels. Once built, an FST can be saved to
// and loaded from a byte stream, and optionally rewritten into a smaller
// "packed" form by Pack.
//
// The Builder shares identical frozen nodes through a signature cache but
// is not a full minimizing builder. The package does not implement on-disk
// file containers, checksumming, or automaton intersection; see
// SPEC_FULL.md in the module root for the full list of what is and isn't
// in scope.
package fst
