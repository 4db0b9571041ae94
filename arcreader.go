package fst

// This file is the ArcReader component: a stateless set of functions over
// an *Arc cursor and a caller-owned BytesReader. Nothing here retains
// state between calls other than what it writes back into arc.

// GetFirstArc initializes arc as the virtual incoming arc to the FST's
// start node.
func (f *FST) GetFirstArc(arc *Arc) *Arc {
	arc.Node = -1
	arc.ArcIdx = -1
	arc.BytesPerArc = 0
	arc.Target = f.startNode
	if f.emptyOutput != nil {
		arc.Flags = FlagFinalArc | FlagLastArc
		arc.NextFinalOutput = f.emptyOutput
	} else {
		arc.Flags = 0
		arc.NextFinalOutput = f.outputs.NoOutput()
	}
	arc.Output = f.outputs.NoOutput()
	arc.Label = EndLabel - 1 // not a real label; this arc is never looked up by it
	return arc
}

// ReadFirstTargetArc positions arc at the first outgoing arc of the state
// follow targets: a synthetic END_LABEL arc if that state is final,
// otherwise the first real arc of its node.
func (f *FST) ReadFirstTargetArc(follow, arc *Arc, in BytesReader) (*Arc, error) {
	if follow.IsFinal() {
		arc.Node = follow.Target
		arc.Label = EndLabel
		arc.Output = f.outputs.NoOutput()
		arc.NextFinalOutput = follow.NextFinalOutput
		arc.Target = FinalEndNode
		flags := FlagFinalArc
		if follow.Target <= 0 {
			flags |= FlagLastArc
		}
		arc.Flags = flags
		arc.BytesPerArc = 0
		arc.ArcIdx = -1
		return arc, nil
	}
	return f.readFirstRealTargetArc(follow.Target, arc, in)
}

func (f *FST) readFirstRealTargetArc(node int, arc *Arc, in BytesReader) (*Arc, error) {
	if node <= 0 {
		return nil, errFormat("cannot read arcs from dead-end node %d", node)
	}
	addr, err := f.resolveNodeAddress(node)
	if err != nil {
		return nil, err
	}
	in.SetPosition(addr)
	b, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	arc.Node = node
	if f.packed {
		ord, ok := f.addrToOrdinal[node]
		if !ok {
			return nil, errFormat("packed node at address %d has no known ordinal", node)
		}
		arc.Node = ord
	}
	if ArcFlag(b) == arcsAsFixedArray {
		numArcs, err := in.ReadVInt()
		if err != nil {
			return nil, err
		}
		bytesPerArc, err := in.ReadVInt()
		if err != nil {
			return nil, err
		}
		arc.NumArcs = int(numArcs)
		arc.BytesPerArc = int(bytesPerArc)
		arc.PosArcsStart = in.Position()
		arc.ArcIdx = -1
	} else {
		in.SetPosition(addr)
		arc.BytesPerArc = 0
		arc.ArcIdx = -1
		arc.NextArc = addr
	}
	return f.readNextRealArc(arc, in)
}

// readNextRealArc advances to the next arc of the node arc currently
// belongs to, raw (no END_LABEL synthesis).
func (f *FST) readNextRealArc(arc *Arc, in BytesReader) (*Arc, error) {
	if arc.isFixedArray() {
		arc.ArcIdx++
		if arc.ArcIdx >= arc.NumArcs {
			return nil, errIllegalState("read past last arc of fixed-array node")
		}
		in.SetPosition(arc.PosArcsStart)
		in.SkipBytes(arc.ArcIdx * arc.BytesPerArc)
	} else {
		in.SetPosition(arc.NextArc)
	}

	flagsByte, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	flags := ArcFlag(flagsByte)
	arc.Flags = flags

	label, err := readLabel(in, f.inputType)
	if err != nil {
		return nil, err
	}
	arc.Label = label

	if flags.has(FlagArcHasOutput) {
		out, err := f.outputs.Read(in)
		if err != nil {
			return nil, err
		}
		arc.Output = out
	} else {
		arc.Output = f.outputs.NoOutput()
	}
	if flags.has(FlagArcHasFinalOutput) {
		fo, err := f.outputs.ReadFinalOutput(in)
		if err != nil {
			return nil, err
		}
		arc.NextFinalOutput = fo
	} else {
		arc.NextFinalOutput = f.outputs.NoOutput()
	}

	switch {
	case flags.has(FlagStopNode):
		if flags.has(FlagFinalArc) {
			arc.Target = FinalEndNode
		} else {
			arc.Target = NonFinalEndNode
		}
	case flags.has(FlagTargetNext):
		if f.packed {
			prevOrdinal := arc.Node - 1
			if prevOrdinal < 0 || prevOrdinal >= len(f.ordinalToAddress) {
				return nil, errFormat("packed TARGET_NEXT ordinal %d out of range", prevOrdinal)
			}
			arc.Target = f.ordinalToAddress[prevOrdinal]
		} else {
			if !arc.isFixedArray() {
				if err := f.seekToNextNode(arc, in); err != nil {
					return nil, err
				}
			} else {
				// Fixed-array TARGET_NEXT would require a node boundary
				// scan for every arc; the encoder never emits it for
				// fixed-array nodes (spec.md §4.3), so this is
				// unreachable for well-formed input.
				return nil, errFormat("TARGET_NEXT is illegal on a fixed-array arc")
			}
		}
	default:
		if f.packed && flags.has(FlagTargetDelta) {
			delta, err := in.ReadVLong()
			if err != nil {
				return nil, err
			}
			arc.Target = in.Position() + int(delta)
		} else {
			code, err := in.ReadVLong()
			if err != nil {
				return nil, err
			}
			if f.packed && f.nodeRefToAddress != nil && int(code) < len(f.nodeRefToAddress) {
				arc.Target = f.nodeRefToAddress[code]
			} else {
				arc.Target = int(code)
			}
		}
	}

	if arc.isFixedArray() {
		arc.NextArc = arc.PosArcsStart + (arc.ArcIdx+1)*arc.BytesPerArc
	} else {
		arc.NextArc = in.Position()
	}

	return arc, nil
}

// seekToNextNode resolves TARGET_NEXT for a linear (non-fixed-array) node
// in an unpacked FST: the target begins wherever this node's last sibling
// arc ends, which the encoder never recorded, so a reader landing on a
// non-last arc has to scan forward through the remaining siblings once to
// find it. Fixed-array nodes never reach here: the encoder does not emit
// TARGET_NEXT for them and readNextRealArc rejects it. The last arc of any
// node needs no scan (TARGET_NEXT targets the node written just before
// this one, which for the last arc begins where reading stops).
func (f *FST) seekToNextNode(arc *Arc, in BytesReader) error {
	resumePos := in.Position()
	if arc.IsLast() {
		arc.Target = resumePos
		return nil
	}
	scratch := *arc
	scratch.NextArc = resumePos
	for !scratch.IsLast() {
		next, err := f.readNextRealArc(&scratch, in)
		if err != nil {
			return err
		}
		scratch = *next
	}
	arc.Target = in.Position()
	in.SetPosition(resumePos)
	return nil
}

// ReadLastTargetArc positions arc at the last outgoing arc of the state
// follow targets.
func (f *FST) ReadLastTargetArc(follow, arc *Arc, in BytesReader) (*Arc, error) {
	if follow.IsFinal() && follow.Target <= 0 {
		return f.ReadFirstTargetArc(follow, arc, in)
	}
	if _, err := f.readFirstRealTargetArc(follow.Target, arc, in); err != nil {
		return nil, err
	}
	if arc.isFixedArray() {
		arc.ArcIdx = arc.NumArcs - 2
		return f.readNextRealArc(arc, in)
	}
	for !arc.IsLast() {
		if _, err := f.readNextRealArc(arc, in); err != nil {
			return nil, err
		}
	}
	return arc, nil
}

// ReadNextArcLabel peeks the label of the arc immediately following arc,
// without mutating arc.
func (f *FST) ReadNextArcLabel(arc *Arc, in BytesReader) (int, error) {
	if arc.Label == EndLabel {
		return 0, errIllegalState("no arc follows the synthetic END_LABEL arc")
	}
	if arc.IsLast() {
		return 0, errIllegalState("no arc follows the last arc of a node")
	}
	scratch := *arc
	next, err := f.readNextRealArc(&scratch, in)
	if err != nil {
		return 0, err
	}
	return next.Label, nil
}

// FindTargetArc looks up label among the arcs leaving the state follow
// targets. It returns (arc, true, nil) on a hit, (nil, false, nil) if no
// such arc exists, and a non-nil error only on a genuine format problem.
func (f *FST) FindTargetArc(label int, follow, arc *Arc, in BytesReader) (*Arc, bool, error) {
	if label == EndLabel {
		if follow.IsFinal() {
			got, err := f.ReadFirstTargetArc(follow, arc, in)
			return got, true, err
		}
		return nil, false, nil
	}

	if follow.Target <= 0 {
		// The state follow targets has no outgoing arcs at all (Lucene's
		// targetHasArcs guard): looking up any label past a complete entry
		// — "carts" once "cart" is a dict entry with no further children —
		// must report "not found" here, not hand the sentinel to
		// readFirstRealTargetArc, which treats any node <= 0 as a format
		// error rather than a dead end.
		return nil, false, nil
	}

	if follow.Target == f.startNode && label >= 0 && label < len(f.rootCache) {
		cached := f.rootCache[label]
		if cached == nil {
			return nil, false, nil
		}
		*arc = *cached
		return arc, true, nil
	}

	if _, err := f.readFirstRealTargetArc(follow.Target, arc, in); err != nil {
		return nil, false, err
	}

	if arc.isFixedArray() {
		lo, hi := 0, arc.NumArcs-1
		for lo <= hi {
			mid := (lo + hi) / 2
			in.SetPosition(arc.PosArcsStart)
			in.SkipBytes(mid*arc.BytesPerArc + 1) // skip flags byte
			l, err := readLabel(in, f.inputType)
			if err != nil {
				return nil, false, err
			}
			switch {
			case l == label:
				arc.ArcIdx = mid - 1
				got, err := f.readNextRealArc(arc, in)
				return got, true, err
			case l < label:
				lo = mid + 1
			default:
				hi = mid - 1
			}
		}
		return nil, false, nil
	}

	for {
		if arc.Label == label {
			return arc, true, nil
		}
		if arc.Label > label || arc.IsLast() {
			return nil, false, nil
		}
		if _, err := f.readNextRealArc(arc, in); err != nil {
			return nil, false, err
		}
	}
}
