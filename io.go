package fst

// formatMagic is the codec header's format-name bytes (spec.md §6 item 1).
const formatMagic = "FST1"

// Version tags spec.md §6 names. VersionPacked(3) is accepted on Load only
// to report a clear error: its fixed-width (rather than vint) arc targets
// and bytes_per_arc would need a second code path threaded through
// NodeEncoder and ArcReader for a format this package never writes, and
// nothing in this corpus exercises it — see DESIGN.md.
const (
	VersionPacked     = 3
	VersionVIntTarget = 4
	currentVersion    = VersionVIntTarget
)

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// Save serializes f to a byte stream per spec.md §6.
func Save(f *FST) ([]byte, error) {
	out := NewByteStore()
	out.WriteBytes([]byte(formatMagic))
	out.WriteInt(int32(f.version))

	if f.packed {
		out.WriteByte(1)
	} else {
		out.WriteByte(0)
	}

	if f.emptyOutput != nil {
		out.WriteByte(1)
		buf := NewByteStore()
		if err := f.outputs.WriteFinalOutput(f.emptyOutput, buf); err != nil {
			return nil, errIO(err, "encoding empty output")
		}
		buf.Finish()
		eb := buf.Bytes()
		if !f.packed {
			reverseBytes(eb)
		}
		out.WriteVInt(uint32(len(eb)))
		out.WriteBytes(eb)
	} else {
		out.WriteByte(0)
	}

	out.WriteByte(f.inputType.tag())

	if f.packed {
		NewPackedIntArray(f.nodeRefToAddress).WriteTo(out)
		NewPackedIntArray(f.ordinalToAddress).WriteTo(out)
	}

	out.WriteVLong(uint64(f.startNode))
	out.WriteVLong(uint64(f.nodeCount))
	out.WriteVLong(uint64(f.arcCount))
	out.WriteVLong(uint64(f.arcWithOutputCount))

	raw := f.store.Bytes()
	out.WriteVLong(uint64(len(raw)))
	out.WriteBytes(raw)

	out.Finish()
	return out.Bytes(), nil
}

func readExact(r BytesReader, n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := range buf {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

// Load deserializes a byte stream written by Save. outputs must be the
// same codec the FST was built with; the format does not self-describe it
// (spec.md §6 treats Outputs as an external collaborator).
func Load(buf []byte, outputs Outputs) (*FST, error) {
	src := NewByteStoreFromBytes(buf)
	r := src.GetForwardReader()

	magic, err := readExact(r, len(formatMagic))
	if err != nil {
		return nil, errFormatCause(err, "reading codec header")
	}
	if string(magic) != formatMagic {
		return nil, errFormat("not an FST stream: bad magic %q", magic)
	}
	version, err := r.ReadInt()
	if err != nil {
		return nil, errFormatCause(err, "reading format version")
	}
	if version == VersionPacked {
		return nil, errFormat("version %d (fixed-width targets) is not supported by this build; re-save with the current writer", version)
	}
	if version != VersionVIntTarget {
		return nil, errFormat("unsupported FST version %d", version)
	}

	packedByte, err := r.ReadByte()
	if err != nil {
		return nil, errFormatCause(err, "reading packed flag")
	}
	packed := packedByte == 1

	hasEmpty, err := r.ReadByte()
	if err != nil {
		return nil, errFormatCause(err, "reading empty-output flag")
	}
	var emptyOutput interface{}
	if hasEmpty == 1 {
		n, err := r.ReadVInt()
		if err != nil {
			return nil, errFormatCause(err, "reading empty-output length")
		}
		eb, err := readExact(r, int(n))
		if err != nil {
			return nil, errFormatCause(err, "reading empty-output bytes")
		}
		sub := NewByteStoreFromBytes(eb)
		var subReader BytesReader
		if packed {
			subReader = sub.GetForwardReader()
		} else {
			subReader = sub.GetReverseReader(len(eb) - 1)
		}
		emptyOutput, err = outputs.ReadFinalOutput(subReader)
		if err != nil {
			return nil, errFormatCause(err, "decoding empty output")
		}
	}

	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, errFormatCause(err, "reading input-type tag")
	}
	inputType, err := inputTypeFromTag(tagByte)
	if err != nil {
		return nil, err
	}

	var nodeRefToAddress []int
	var ordinalToAddress []int
	var addrToOrdinal map[int]int
	if packed {
		pia, err := ReadPackedIntArray(r)
		if err != nil {
			return nil, errFormatCause(err, "reading node-ref-to-address table")
		}
		nodeRefToAddress = pia.ToInts()

		pia2, err := ReadPackedIntArray(r)
		if err != nil {
			return nil, errFormatCause(err, "reading node-ordinal-to-address table")
		}
		ordinalToAddress = pia2.ToInts()
		addrToOrdinal = make(map[int]int, len(ordinalToAddress))
		for ord, addr := range ordinalToAddress {
			addrToOrdinal[addr] = ord
		}
	}

	startNode, err := r.ReadVLong()
	if err != nil {
		return nil, errFormatCause(err, "reading start node")
	}
	nodeCount, err := r.ReadVLong()
	if err != nil {
		return nil, errFormatCause(err, "reading node count")
	}
	arcCount, err := r.ReadVLong()
	if err != nil {
		return nil, errFormatCause(err, "reading arc count")
	}
	arcWithOutputCount, err := r.ReadVLong()
	if err != nil {
		return nil, errFormatCause(err, "reading arc-with-output count")
	}
	totalArcBytes, err := r.ReadVLong()
	if err != nil {
		return nil, errFormatCause(err, "reading arc byte length")
	}
	raw, err := readExact(r, int(totalArcBytes))
	if err != nil {
		return nil, errFormatCause(err, "reading arc bytes")
	}

	f := &FST{
		store:              NewByteStoreFromBytes(raw),
		inputType:          inputType,
		outputs:            outputs,
		startNode:          int(startNode),
		emptyOutput:        emptyOutput,
		nodeCount:          int64(nodeCount),
		arcCount:           int64(arcCount),
		arcWithOutputCount: int64(arcWithOutputCount),
		packed:             packed,
		nodeRefToAddress:   nodeRefToAddress,
		ordinalToAddress:   ordinalToAddress,
		addrToOrdinal:      addrToOrdinal,
		version:            int(version),
	}
	if err := f.buildRootCache(); err != nil {
		return nil, err
	}
	return f, nil
}
