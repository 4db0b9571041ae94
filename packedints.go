package fst

// PackedIntArray is the bit-packed integer vector spec.md §9 calls for.
// Save and Load use it for a packed FST's node_ref_to_address table and
// its ordinal-to-address table (the build-time node_address table is a
// plain []int on NodeEncoder). Both tables hold non-negative integers and
// neither needs more than a handful
// of distinct widths, so a per-array uniform byte width is enough — no
// general bit-level packing, just the smallest whole number of bytes
// that fits the largest value in the array.
type PackedIntArray struct {
	width int // bytes per entry, one of 1,2,3,4,5,6,7,8
	data  []byte
}

func widthForMax(max uint64) int {
	w := 1
	for max >= 1<<(8*uint(w)) {
		w++
	}
	return w
}

// NewPackedIntArray packs values into the narrowest uniform byte width
// that holds all of them.
func NewPackedIntArray(values []int) *PackedIntArray {
	var max uint64
	for _, v := range values {
		if uint64(v) > max {
			max = uint64(v)
		}
	}
	w := widthForMax(max)
	data := make([]byte, len(values)*w)
	for i, v := range values {
		putUint(data[i*w:(i+1)*w], uint64(v), w)
	}
	return &PackedIntArray{width: w, data: data}
}

func putUint(dst []byte, v uint64, width int) {
	for i := 0; i < width; i++ {
		dst[width-1-i] = byte(v >> (8 * uint(i)))
	}
}

func getUint(src []byte, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v = v<<8 | uint64(src[i])
	}
	return v
}

// Len returns the number of entries.
func (p *PackedIntArray) Len() int {
	if p.width == 0 {
		return 0
	}
	return len(p.data) / p.width
}

// Get returns the value at index i.
func (p *PackedIntArray) Get(i int) int {
	return int(getUint(p.data[i*p.width:(i+1)*p.width], p.width))
}

// WriteTo appends this array's encoding (vint width, vint count, raw
// entries) to store.
func (p *PackedIntArray) WriteTo(store *ByteStore) {
	store.WriteVInt(uint32(p.width))
	store.WriteVInt(uint32(p.Len()))
	store.WriteBytes(p.data)
}

// ReadPackedIntArray decodes an array written by WriteTo.
func ReadPackedIntArray(r BytesReader) (*PackedIntArray, error) {
	width, err := r.ReadVInt()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadVInt()
	if err != nil {
		return nil, err
	}
	if width == 0 || width > 8 {
		return nil, errFormat("packed int array width %d out of range", width)
	}
	data := make([]byte, int(width)*int(count))
	for i := range data {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		data[i] = b
	}
	return &PackedIntArray{width: int(width), data: data}, nil
}

// ToInts expands the array into a plain slice, for callers (like the
// in-memory node_ref_to_address lookup in readNextRealArc) that want
// direct indexing without a method call per access.
func (p *PackedIntArray) ToInts() []int {
	out := make([]int, p.Len())
	for i := range out {
		out[i] = p.Get(i)
	}
	return out
}
