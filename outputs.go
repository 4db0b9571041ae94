package fst

// Outputs is the external collaborator spec.md §6 calls out: the core is
// generic over whatever output monoid the caller supplies. Implementations
// must be safe to call from many goroutines once the FST built with them
// is finished (read phase is concurrent-read-safe; see FST).
type Outputs interface {
	// NoOutput is the sentinel meaning "no output", and must compare equal
	// to itself by value (it is used as a map/comparison key internally).
	NoOutput() interface{}
	// Write encodes out for an unpacked (reverse-read) FST.
	Write(out interface{}, s *ByteStore) error
	// WriteFinalOutput encodes a final output the same way Write does;
	// kept distinct because some monoids encode final outputs differently
	// (e.g. to signal "no final output" without a byte).
	WriteFinalOutput(out interface{}, s *ByteStore) error
	// Read decodes an output written by Write.
	Read(r BytesReader) (interface{}, error)
	// ReadFinalOutput decodes an output written by WriteFinalOutput.
	ReadFinalOutput(r BytesReader) (interface{}, error)
	// Merge combines a and b. FST.Get uses it to combine the outputs along
	// a path, and Builder.Add uses it when a second empty-output value is
	// added to an FST that already has one.
	Merge(a, b interface{}) interface{}
}

// Int64Outputs is the reference Outputs implementation: a sum monoid over
// non-negative int64 values, equivalent to the "PositiveIntOutputs" monoid
// spec.md's concrete scenarios are written against. NoOutput is 0; Merge is
// addition; zero is encoded as no bytes at all so the common "most arcs
// carry no output" case costs nothing on the wire.
type Int64Outputs struct{}

// NoOutput returns int64(0).
func (Int64Outputs) NoOutput() interface{} { return int64(0) }

// Write encodes out as a vlong, or nothing at all if out is NoOutput.
func (Int64Outputs) Write(out interface{}, s *ByteStore) error {
	v := out.(int64)
	if v == 0 {
		return nil
	}
	if v < 0 {
		return errFormat("Int64Outputs requires non-negative values, got %d", v)
	}
	s.WriteVLong(uint64(v))
	return nil
}

// WriteFinalOutput encodes out the same way Write does.
func (o Int64Outputs) WriteFinalOutput(out interface{}, s *ByteStore) error {
	return o.Write(out, s)
}

// Read decodes a value written by Write. Outputs is only ever asked to
// decode when the caller already knows (via ARC_HAS_OUTPUT) that bytes are
// present, so there is no "maybe zero bytes" ambiguity at this layer.
func (Int64Outputs) Read(r BytesReader) (interface{}, error) {
	v, err := r.ReadVLong()
	if err != nil {
		return nil, err
	}
	return int64(v), nil
}

// ReadFinalOutput decodes a value written by WriteFinalOutput.
func (o Int64Outputs) ReadFinalOutput(r BytesReader) (interface{}, error) {
	return o.Read(r)
}

// Merge returns a+b.
func (Int64Outputs) Merge(a, b interface{}) interface{} {
	return a.(int64) + b.(int64)
}

func outputsEqual(outs Outputs, a, b interface{}) bool {
	if a == nil {
		a = outs.NoOutput()
	}
	if b == nil {
		b = outs.NoOutput()
	}
	return a == b
}

func outputIsNoOutput(outs Outputs, v interface{}) bool {
	if v == nil {
		return true
	}
	return v == outs.NoOutput()
}
