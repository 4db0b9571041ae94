package fst

// InputType selects the label width an FST was built with. The choice is
// fixed at build time and recorded in the on-disk header (spec.md §6).
type InputType int

const (
	// InputByte1 is 1-byte unsigned labels, range 0..255 — plain byte
	// strings, the common case for a term dictionary.
	InputByte1 InputType = iota
	// InputByte2 is 2-byte big-endian unsigned labels, range 0..65535.
	InputByte2
	// InputByte4 is variable-length-encoded non-negative 32-bit labels,
	// used for sequences of Unicode codepoints.
	InputByte4
)

func (t InputType) String() string {
	switch t {
	case InputByte1:
		return "byte1"
	case InputByte2:
		return "byte2"
	case InputByte4:
		return "byte4"
	default:
		return "unknown"
	}
}

func inputTypeFromTag(tag byte) (InputType, error) {
	switch tag {
	case 0:
		return InputByte1, nil
	case 1:
		return InputByte2, nil
	case 2:
		return InputByte4, nil
	default:
		return 0, errFormat("unknown input type tag %d", tag)
	}
}

func (t InputType) tag() byte {
	return byte(t)
}

// writeLabel appends label to the store using the width t selects.
func writeLabel(s *ByteStore, t InputType, label int) error {
	switch t {
	case InputByte1:
		if label < 0 || label > 0xff {
			return errFormat("label %d out of range for byte1 input type", label)
		}
		s.WriteByte(byte(label))
	case InputByte2:
		if label < 0 || label > 0xffff {
			return errFormat("label %d out of range for byte2 input type", label)
		}
		s.WriteShort(uint16(label))
	case InputByte4:
		if label < 0 {
			return errFormat("label %d must be non-negative for byte4 input type", label)
		}
		s.WriteVInt(uint32(label))
	default:
		return errFormat("unknown input type %v", t)
	}
	return nil
}

// readLabel decodes one label using the width t selects.
func readLabel(r BytesReader, t InputType) (int, error) {
	switch t {
	case InputByte1:
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return int(b), nil
	case InputByte2:
		v, err := r.ReadShort()
		if err != nil {
			return 0, err
		}
		return int(v), nil
	case InputByte4:
		v, err := r.ReadVInt()
		if err != nil {
			return 0, err
		}
		return int(v), nil
	default:
		return 0, errFormat("unknown input type %v", t)
	}
}

// labelLen returns how many bytes writeLabel would emit for label under t.
func labelLen(t InputType, label int) int {
	switch t {
	case InputByte1:
		return 1
	case InputByte2:
		return 2
	case InputByte4:
		return vintLen(uint64(label))
	default:
		return 0
	}
}
