package fst

import "sort"

// PackOptions tunes the Packer's dense-id selection (spec.md §4.5).
type PackOptions struct {
	// MinInCountDeref is the minimum in-degree a node needs to be eligible
	// for a dense id at all.
	MinInCountDeref int
	// MaxDerefNodes caps how many nodes get a dense id.
	MaxDerefNodes int
	// AllowArrayArcs mirrors the build-time flag for the re-emitted nodes.
	AllowArrayArcs bool
}

// DefaultPackOptions returns the conservative defaults used when a caller
// doesn't have a size budget of their own to tune against.
func DefaultPackOptions() PackOptions {
	return PackOptions{
		MinInCountDeref: 2,
		MaxDerefNodes:   1024,
		AllowArrayArcs:  true,
	}
}

// Pack rewrites f into a packed FST: a dense node-ref id is assigned to
// every sufficiently-referenced node (selected by descending in-degree)
// and every arc that targets one writes that id instead of an absolute
// address. Every node, dense or not, also keeps its plain emission
// ordinal (see FST.ordinalToAddress) so a TARGET_NEXT arc can still
// resolve its target without an absolute address.
//
// enc must be the NodeEncoder that built f, created with willPack=true —
// Pack needs its NodeAddresses/InDegree bookkeeping, which a finished FST
// does not itself retain (spec.md §5's "node-ordinal table... dropped
// before packing completes" describes exactly this handoff).
//
// Unlike the source's iterative convergence loop (spec.md §4.5 step 3),
// this is a single re-emission pass in original build order: TARGET_NEXT,
// STOP_NODE, and dense-id/absolute targets are all supported, but
// TARGET_DELTA is not — see DESIGN.md for why that piece was descoped.
func Pack(f *FST, enc *NodeEncoder, opts PackOptions) (*FST, error) {
	if f.packed {
		return nil, errIllegalState("cannot pack an already-packed FST")
	}
	if enc == nil || !enc.willPack {
		return nil, errIllegalState("pack requires an FST built with WillPackFST")
	}

	denseIDs, numDense := selectDenseIDs(enc, opts)

	newStore := NewByteStore()
	newStore.WriteByte(0)
	// Addresses 0..numDense are reserved for dense node-ref ids so that a
	// decoded target's magnitude unambiguously says which encoding it is
	// (spec.md §4.4's "less than the deref-table size" rule): real node
	// addresses all start strictly after this reserved span.
	if numDense > 0 {
		newStore.SkipBytes(numDense)
	}
	packedEnc := newPackedNodeEncoder(newStore, f.inputType, f.outputs, opts.AllowArrayArcs)

	oldToNew := make(map[int]int, len(enc.NodeAddresses))
	oldToNew[FinalEndNode] = FinalEndNode
	oldToNew[NonFinalEndNode] = NonFinalEndNode

	in := f.store.GetReverseReader(0)
	var newStart int
	// The loop index stands in for tree depth here: it only feeds the
	// fixed-array-layout heuristic, never correctness, and the original
	// per-node depth isn't retained across a pack. It doubles as the
	// node's packed emission ordinal, recorded below for TARGET_NEXT.
	ordinalAddrs := make([]int, len(enc.NodeAddresses))
	for depth, oldAddr := range enc.NodeAddresses {
		node, err := readCompiledNode(f, oldAddr, in)
		if err != nil {
			return nil, err
		}
		for i := range node.Arcs {
			old := node.Arcs[i].Target
			na, ok := oldToNew[old]
			if !ok {
				return nil, errFormat("pack: target %d referenced before it was compiled", old)
			}
			node.Arcs[i].Target = na
		}
		newAddr, err := packedEnc.addNode(node, depth, denseIDs)
		if err != nil {
			return nil, err
		}
		oldToNew[oldAddr] = newAddr
		ordinalAddrs[depth] = newAddr
		newStart = newAddr
	}

	addrToOrdinal := make(map[int]int, len(ordinalAddrs))
	for ord, addr := range ordinalAddrs {
		addrToOrdinal[addr] = ord
	}

	if sa, ok := oldToNew[f.startNode]; ok {
		newStart = sa
	} else if f.startNode <= 0 {
		newStart = f.startNode
	}

	denseAddrs := make([]int, numDense)
	for oldAddr, id := range denseIDs {
		na, ok := oldToNew[oldAddr]
		if !ok {
			return nil, errFormat("pack: dense-id node %d never compiled", oldAddr)
		}
		denseAddrs[id] = na
	}

	newStore.Finish()
	packed := &FST{
		store:              newStore,
		inputType:          f.inputType,
		outputs:            f.outputs,
		startNode:          newStart,
		emptyOutput:        f.emptyOutput,
		nodeCount:          packedEnc.NodeCount,
		arcCount:           packedEnc.ArcCount,
		arcWithOutputCount: packedEnc.ArcWithOutputCount,
		packed:             true,
		nodeRefToAddress:   denseAddrs,
		ordinalToAddress:   ordinalAddrs,
		addrToOrdinal:      addrToOrdinal,
		version:            f.version,
	}
	if err := packed.buildRootCache(); err != nil {
		return nil, err
	}
	return packed, nil
}

// selectDenseIDs picks the top-K nodes by in-degree (ties broken by
// smaller ordinal) and assigns dense ids 0..K-1, higher in-degree first.
func selectDenseIDs(enc *NodeEncoder, opts PackOptions) (map[int]int, int) {
	type candidate struct {
		ordinal int
		addr    int
		degree  int
	}
	var candidates []candidate
	for ord, addr := range enc.NodeAddresses {
		deg := enc.InDegree[addr]
		if deg >= opts.MinInCountDeref {
			candidates = append(candidates, candidate{ordinal: ord, addr: addr, degree: deg})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].degree != candidates[j].degree {
			return candidates[i].degree > candidates[j].degree
		}
		return candidates[i].ordinal < candidates[j].ordinal
	})

	k := opts.MaxDerefNodes
	if k > len(candidates) {
		k = len(candidates)
	}
	denseIDs := make(map[int]int, k)
	for id := 0; id < k; id++ {
		c := candidates[id]
		denseIDs[c.addr] = id
	}
	return denseIDs, k
}

// readCompiledNode walks node's real arcs via the ArcReader state machine
// and copies them into a CompiledNode, targets still in the *old* FST's
// address space.
func readCompiledNode(f *FST, addr int, in BytesReader) (*CompiledNode, error) {
	var arc Arc
	if _, err := f.readFirstRealTargetArc(addr, &arc, in); err != nil {
		return nil, err
	}
	node := &CompiledNode{}
	for {
		node.Arcs = append(node.Arcs, CompiledArc{
			Label:       arc.Label,
			Output:      arc.Output,
			IsFinal:     arc.IsFinal(),
			FinalOutput: arc.NextFinalOutput,
			Target:      arc.Target,
		})
		if arc.IsLast() {
			break
		}
		if _, err := f.readNextRealArc(&arc, in); err != nil {
			return nil, err
		}
	}
	return node, nil
}
