package fst

// CompiledArc is one outgoing transition of a CompiledNode, already
// resolved to a concrete target address. NodeEncoder assumes the caller
// (the Builder, or anything else that wants to drive it directly) hands
// arcs sorted by Label and with every Target already written — a node is
// only ever compiled after all of its children are.
type CompiledArc struct {
	Label       int
	Output      interface{}
	IsFinal     bool
	FinalOutput interface{}
	Target      int
}

// CompiledNode is the unit NodeEncoder.AddNode consumes. A node with no
// arcs is never written to the byte store — AddNode returns one of the
// sentinel sink addresses for it instead, chosen by IsFinal.
type CompiledNode struct {
	Arcs []CompiledArc
	// IsFinal matters only when Arcs is empty: it picks whether AddNode
	// returns FinalEndNode or NonFinalEndNode for this leaf.
	IsFinal bool
}
