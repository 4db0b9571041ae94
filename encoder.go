package fst

// maxOrdinal is the largest node ordinal a willPack-mode build will accept
// before failing with CapacityExceeded (spec.md §4.3, §7).
const maxOrdinal = 1<<31 - 1

// NodeEncoder serializes compiled nodes into a ByteStore, choosing between
// a linear (forward-scan) and a fixed-array (binary-searchable) arc layout
// per node. It is the only component that writes FST bytes.
//
// An encoder is single-use per FST build: AddNode must be called with
// already-compiled children before their parent, and is not safe for
// concurrent use (spec.md §5).
type NodeEncoder struct {
	store          *ByteStore
	inputType      InputType
	outputs        Outputs
	allowArrayArcs bool

	// packed selects the Packer's write mode: no final per-node reversal,
	// and the returned address is the node's start (lowest) address
	// rather than its end (highest) address. See SPEC_FULL.md's note on
	// reverse writes and pack.go.
	packed bool

	// willPack records per-node ordinal addresses and in-degree counts so
	// a later Pack() call has what it needs. Only meaningful when packed
	// is false (it describes the *source* FST of a future pack, not a
	// packed encoder's own bookkeeping).
	willPack bool

	lastFrozenNode int

	NodeCount          int64
	ArcCount           int64
	ArcWithOutputCount int64

	// NodeAddresses[ordinal] is the address the ordinal-th real node was
	// written at, in write order. Populated only when willPack is true.
	NodeAddresses []int
	// InDegree[address] counts how many arcs target that address.
	// Populated only when willPack is true.
	InDegree map[int]int
}

// NewNodeEncoder creates an encoder writing into store.
func NewNodeEncoder(store *ByteStore, inputType InputType, outputs Outputs, allowArrayArcs, willPack bool) *NodeEncoder {
	e := &NodeEncoder{
		store:          store,
		inputType:      inputType,
		outputs:        outputs,
		allowArrayArcs: allowArrayArcs,
		willPack:       willPack,
		lastFrozenNode: -2,
	}
	if willPack {
		e.InDegree = make(map[int]int)
	}
	return e
}

func newPackedNodeEncoder(store *ByteStore, inputType InputType, outputs Outputs, allowArrayArcs bool) *NodeEncoder {
	e := NewNodeEncoder(store, inputType, outputs, allowArrayArcs, false)
	e.packed = true
	return e
}

type arcSpan struct{ offset, length int }

// AddNode writes node's arcs and returns the address (or, for a zero-arc
// node, a sentinel sink) the node can be targeted by. depth is the node's
// distance from the FST's root, used only to pick the fixed-array
// threshold (spec.md §4.3).
func (e *NodeEncoder) AddNode(node *CompiledNode, depth int) (int, error) {
	return e.addNode(node, depth, nil)
}

// addNode is AddNode's body, generalized with an optional denseIDs map so
// pack.go can reuse the exact same layout/flag logic while additionally
// writing a dense node-ref id in place of an absolute address wherever a
// target is one of the Packer's chosen high-in-degree nodes (spec.md
// §4.5). denseIDs is nil for every ordinary build-time call.
func (e *NodeEncoder) addNode(node *CompiledNode, depth int, denseIDs map[int]int) (int, error) {
	if len(node.Arcs) == 0 {
		if node.IsFinal {
			return FinalEndNode, nil
		}
		return NonFinalEndNode, nil
	}

	startAddress := e.store.Position()
	useArray := e.allowArrayArcs && (len(node.Arcs) >= 10 || (depth <= 3 && len(node.Arcs) >= 5))

	var spans []arcSpan
	if useArray {
		spans = make([]arcSpan, len(node.Arcs))
	}

	for i := range node.Arcs {
		arc := node.Arcs[i]
		arcStart := e.store.Position()
		last := i == len(node.Arcs)-1

		var flags ArcFlag
		if last {
			flags |= FlagLastArc
		}
		hasFinalOutput := arc.IsFinal && !outputIsNoOutput(e.outputs, arc.FinalOutput)
		if arc.IsFinal {
			flags |= FlagFinalArc
			if hasFinalOutput {
				flags |= FlagArcHasFinalOutput
			}
		} else if hasFinalOutput {
			return 0, errFormat("arc carries a final output but is not final")
		}
		hasOutput := !outputIsNoOutput(e.outputs, arc.Output)
		if hasOutput {
			flags |= FlagArcHasOutput
		}

		stop := arc.Target <= 0
		targetNext := !stop && !useArray && arc.Target == e.lastFrozenNode
		derefID, isDeref := 0, false
		if denseIDs != nil && !stop && !targetNext {
			derefID, isDeref = denseIDs[arc.Target]
		}
		if stop {
			flags |= FlagStopNode
		} else if targetNext {
			flags |= FlagTargetNext
		}

		e.store.WriteByte(byte(flags))
		if err := writeLabel(e.store, e.inputType, arc.Label); err != nil {
			return 0, err
		}
		if hasOutput {
			if err := e.outputs.Write(arc.Output, e.store); err != nil {
				return 0, errIO(err, "writing arc output")
			}
		}
		if hasFinalOutput {
			if err := e.outputs.WriteFinalOutput(arc.FinalOutput, e.store); err != nil {
				return 0, errIO(err, "writing arc final output")
			}
		}
		if !stop && !targetNext {
			if isDeref {
				e.store.WriteVLong(uint64(derefID))
			} else {
				e.store.WriteVLong(uint64(arc.Target))
			}
		}

		e.ArcCount++
		if hasOutput {
			e.ArcWithOutputCount++
		}
		if e.willPack && !stop {
			e.InDegree[arc.Target]++
		}

		if useArray {
			spans[i] = arcSpan{offset: arcStart - startAddress, length: e.store.Position() - arcStart}
		}
	}

	if useArray {
		if err := e.expandToFixedArray(startAddress, spans); err != nil {
			return 0, err
		}
	}

	e.NodeCount++
	if e.willPack && e.NodeCount > maxOrdinal {
		return 0, errCapacityExceeded("node count %d exceeds the 31-bit ordinal limit", e.NodeCount)
	}

	var addr int
	if e.packed {
		addr = startAddress
	} else {
		e.store.Reverse(startAddress, e.store.Position()-1)
		addr = e.store.Position() - 1
	}
	e.lastFrozenNode = addr
	if e.willPack {
		e.NodeAddresses = append(e.NodeAddresses, addr)
	}
	return addr, nil
}

// expandToFixedArray re-lays-out the arcs just written at startAddress,
// padding each to the same width and prefixing an ARCS_AS_FIXED_ARRAY
// header, per spec.md §4.3.
func (e *NodeEncoder) expandToFixedArray(startAddress int, spans []arcSpan) error {
	bytesPerArc := 0
	for _, sp := range spans {
		if sp.length > bytesPerArc {
			bytesPerArc = sp.length
		}
	}
	numArcs := len(spans)

	header := []byte{byte(arcsAsFixedArray)}
	header = appendVInt(header, uint64(numArcs))
	header = appendVInt(header, uint64(bytesPerArc))
	headerLen := len(header)
	if headerLen > 11 {
		return errFormat("fixed-array header unexpectedly large (%d bytes)", headerLen)
	}

	newTotal := headerLen + numArcs*bytesPerArc
	oldTotal := e.store.Position() - startAddress
	if newTotal > oldTotal {
		e.store.SkipBytes(newTotal - oldTotal)
	}

	for i := numArcs - 1; i >= 0; i-- {
		srcPos := startAddress + spans[i].offset
		dstPos := startAddress + headerLen + i*bytesPerArc
		e.store.CopyBytes(srcPos, dstPos, spans[i].length)
	}

	for i, b := range header {
		e.store.OverwriteByte(startAddress+i, b)
	}
	return nil
}
