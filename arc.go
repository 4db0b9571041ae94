package fst

// ArcFlag is the per-arc bitset spec.md §3 defines. It is always a single
// byte on the wire.
type ArcFlag byte

const (
	// FlagFinalArc marks that the source state is final on this arc's
	// label.
	FlagFinalArc ArcFlag = 1 << 0
	// FlagLastArc marks the last arc in its source state's arc list.
	FlagLastArc ArcFlag = 1 << 1
	// FlagTargetNext marks that the target node begins immediately after
	// this arc in the byte stream; no target pointer is written.
	FlagTargetNext ArcFlag = 1 << 2
	// FlagStopNode marks that the target state has no outgoing arcs.
	FlagStopNode ArcFlag = 1 << 3
	// FlagArcHasOutput marks that an output value follows the label.
	FlagArcHasOutput ArcFlag = 1 << 4
	// FlagArcHasFinalOutput marks that a final-output value follows the
	// output.
	FlagArcHasFinalOutput ArcFlag = 1 << 5
	// FlagTargetDelta marks, in packed FSTs only, that the target pointer
	// is delta-coded against the current read position.
	FlagTargetDelta ArcFlag = 1 << 6

	// arcsAsFixedArray is the single reserved byte value
	// (FlagArcHasFinalOutput alone, illegal as a standalone arc flag) that
	// introduces a fixed-size-array node header instead of an arc.
	arcsAsFixedArray = ArcFlag(FlagArcHasFinalOutput)
)

func (f ArcFlag) has(bit ArcFlag) bool { return f&bit != 0 }

// Sentinel input labels and node addresses.
const (
	// EndLabel is the synthetic label signaling "the source state is
	// final" rather than a real outgoing transition.
	EndLabel = -1

	// FinalEndNode is the virtual final sink: reaching it means the path
	// so far is accepted and there is nothing more to read.
	FinalEndNode = -1
	// NonFinalEndNode is the virtual non-final sink: a dead end.
	NonFinalEndNode = 0
)

// Arc is a mutable traversal cursor. Callers own their own Arc value; the
// ArcReader functions only ever read or overwrite the fields of the Arc
// passed to them, never retain a reference to it.
type Arc struct {
	// Node is the address of the node this arc belongs to, for an unpacked
	// FST. For a packed FST it instead holds that node's packer-assigned
	// emission ordinal (its index into FST.ordinalToAddress, not a byte
	// address) — the only way a packed TARGET_NEXT arc can resolve its
	// target (always ordinal Node-1) back to an address, since packed
	// nodes are addressed by their first byte and are not all the same
	// length, so "address - 1" does not land on the preceding node
	// (spec.md §4.5).
	Node int
	// Label is the input label this arc is keyed on, or EndLabel for the
	// synthetic arc signaling a final state.
	Label int
	// Output is the output value carried by this arc.
	Output interface{}
	// NextFinalOutput is the output yielded if the target is final and
	// traversal stops here.
	NextFinalOutput interface{}
	// Target is the address (or, in a packed FST, the dense node-ref id
	// resolved to an address) of the arc's target node.
	Target int
	// Flags holds the per-arc bit flags this arc was read with.
	Flags ArcFlag

	// NextArc is the byte-store position of the following sibling arc, for
	// linear (non-fixed-array) nodes.
	NextArc int

	// The following four fields are only meaningful when the enclosing
	// node is in fixed-array form; they let the reader index-address any
	// sibling without a linear scan.
	PosArcsStart int
	BytesPerArc  int
	ArcIdx       int
	NumArcs      int
}

// IsLast reports whether this is the last arc of its node's arc list.
func (a *Arc) IsLast() bool { return a.Flags.has(FlagLastArc) }

// IsFinal reports whether the source state is final on this arc.
func (a *Arc) IsFinal() bool { return a.Flags.has(FlagFinalArc) }

// isFixedArray reports whether the arc belongs to a fixed-array node.
func (a *Arc) isFixedArray() bool { return a.BytesPerArc != 0 }
