package fst

// rootCacheSize is the width of the root-arc cache: spec.md fixes it at
// 128 so every ASCII label is a cache hit.
const rootCacheSize = 128

// FST is a finished, byte-serialized automaton. Once returned by Builder's
// Finish, Load, or Pack it is immutable and safe for concurrent reads, as
// long as each reader owns its own Arc and BytesReader (spec.md §5).
type FST struct {
	store     *ByteStore
	inputType InputType
	outputs   Outputs

	startNode   int
	emptyOutput interface{}

	nodeCount          int64
	arcCount           int64
	arcWithOutputCount int64

	rootCache [rootCacheSize]*Arc

	packed           bool
	nodeRefToAddress []int

	// ordinalToAddress maps every packed node's emission ordinal (the
	// order Pack re-emitted it in) to its address; addrToOrdinal is its
	// inverse, built once at construction, never mutated afterward. Both
	// are nil for an unpacked FST. See Arc.Node's doc comment for why a
	// packed TARGET_NEXT arc needs this instead of address arithmetic.
	ordinalToAddress []int
	addrToOrdinal    map[int]int

	version int
}

// GetBytesReader returns a fresh BytesReader of the flavor this FST needs
// — forward for a packed FST, reverse for an unpacked one. Callers
// traversing concurrently must each obtain their own (spec.md §5).
func (f *FST) GetBytesReader() BytesReader {
	if f.packed {
		return f.store.GetForwardReader()
	}
	return f.store.GetReverseReader(0)
}

// InputType returns the label width this FST was built with.
func (f *FST) InputType() InputType { return f.inputType }

// Outputs returns the output codec this FST was built with.
func (f *FST) Outputs() Outputs { return f.outputs }

// IsPacked reports whether this is a packed FST.
func (f *FST) IsPacked() bool { return f.packed }

// NodeCount, ArcCount, and ArcWithOutputCount are diagnostic counters only
// (spec.md §3); nothing in this package's own logic depends on them.
func (f *FST) NodeCount() int64          { return f.nodeCount }
func (f *FST) ArcCount() int64           { return f.arcCount }
func (f *FST) ArcWithOutputCount() int64 { return f.arcWithOutputCount }

// EmptyOutput returns the output accepted for the empty input sequence,
// and whether the FST accepts it at all.
func (f *FST) EmptyOutput() (interface{}, bool) {
	if f.emptyOutput == nil {
		return nil, false
	}
	return f.emptyOutput, true
}

// resolveNodeAddress returns the byte-store address for node. Dense
// node-ref ids are resolved to absolute addresses at the point a target is
// decoded (readNextRealArc), so by the time a node address reaches here it
// is already absolute.
func (f *FST) resolveNodeAddress(node int) (int, error) {
	return node, nil
}

// Get looks up input (a byte slice interpreted per f.InputType()) and
// returns the combined output along the path, or found=false if input is
// not accepted.
func (f *FST) Get(input []byte) (interface{}, bool, error) {
	labels, err := decodeLabels(f.inputType, input)
	if err != nil {
		return nil, false, err
	}

	in := f.GetBytesReader()
	var arc Arc
	f.GetFirstArc(&arc)

	output := f.outputs.NoOutput()
	for _, label := range labels {
		found, ok, err := f.FindTargetArc(label, &arc, &arc, in)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		arc = *found
		output = f.outputs.Merge(output, arc.Output)
	}

	final, ok, err := f.FindTargetArc(EndLabel, &arc, &arc, in)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	output = f.outputs.Merge(output, final.NextFinalOutput)
	return output, true, nil
}

// Contains reports whether input is accepted, without computing its
// output.
func (f *FST) Contains(input []byte) (bool, error) {
	_, ok, err := f.Get(input)
	return ok, err
}

// decodeLabels splits input into the label sequence t expects: one label
// per byte for InputByte1, one per big-endian byte pair for InputByte2,
// and one per vint-encoded codepoint for InputByte4.
func decodeLabels(t InputType, input []byte) ([]int, error) {
	switch t {
	case InputByte1:
		labels := make([]int, len(input))
		for i, b := range input {
			labels[i] = int(b)
		}
		return labels, nil
	case InputByte2:
		if len(input)%2 != 0 {
			return nil, errFormat("byte2 input length %d is not a multiple of 2", len(input))
		}
		labels := make([]int, len(input)/2)
		for i := range labels {
			labels[i] = int(input[2*i])<<8 | int(input[2*i+1])
		}
		return labels, nil
	case InputByte4:
		var labels []int
		pos := 0
		for pos < len(input) {
			v, n, err := readVIntFromBytes(input[pos:])
			if err != nil {
				return nil, err
			}
			labels = append(labels, int(v))
			pos += n
		}
		return labels, nil
	default:
		return nil, errFormat("unknown input type %v", t)
	}
}

func readVIntFromBytes(b []byte) (uint32, int, error) {
	var result uint64
	var shift uint
	for i, x := range b {
		result |= uint64(x&0x7f) << shift
		if x&0x80 == 0 {
			return uint32(result), i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errFormat("truncated vint label")
}

// buildRootCache populates the 128-entry cache of arcs leaving the start
// node. Called once, by Finish/Load/Pack.
func (f *FST) buildRootCache() error {
	if f.startNode <= 0 {
		return nil
	}
	in := f.GetBytesReader()
	var arc Arc
	if _, err := f.readFirstRealTargetArc(f.startNode, &arc, in); err != nil {
		return err
	}
	for {
		if arc.Label >= 0 && arc.Label < rootCacheSize {
			cached := arc
			f.rootCache[arc.Label] = &cached
		}
		if arc.IsLast() {
			break
		}
		if _, err := f.readNextRealArc(&arc, in); err != nil {
			return err
		}
	}
	return nil
}
