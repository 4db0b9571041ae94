package fst

// Default block size mirrors the 2^30 / 2^28 split spec.md calls for: big
// pages on 64-bit hosts, smaller ones where uintptr is 32 bits.
const (
	defaultBlockBits64 = 30
	defaultBlockBits32 = 28
)

func defaultBlockBits() uint {
	if ^uint(0)>>63 == 1 {
		return defaultBlockBits64
	}
	return defaultBlockBits32
}

// ByteStore is an append-only byte sequence, paged in power-of-two blocks,
// that supports the handful of odd operations node encoding needs: writing
// past the current length leaving zero-filled holes, reversing a closed
// range in place, and an overlap-safe forward copy.
//
// It owns all bytes it has ever been given; nothing is freed until the
// whole store is dropped.
type ByteStore struct {
	blockBits uint
	blockSize int
	blockMask int
	blocks    [][]byte
	pos       int
	finished  bool
}

// NewByteStore creates an empty store using the host's default block size.
func NewByteStore() *ByteStore {
	s, err := NewByteStoreBits(defaultBlockBits())
	if err != nil {
		// defaultBlockBits() is always in range; a failure here would be a
		// programming error in this package, not a caller mistake.
		panic(err)
	}
	return s
}

// NewByteStoreBits creates an empty store with an explicit block size of
// 2^bits bytes. bits must be in [1, 30].
func NewByteStoreBits(bits uint) (*ByteStore, error) {
	if bits < 1 || bits > 30 {
		return nil, errCapacityExceeded("block bits %d outside 1..=30", bits)
	}
	return &ByteStore{
		blockBits: bits,
		blockSize: 1 << bits,
		blockMask: (1 << bits) - 1,
	}, nil
}

func (s *ByteStore) ensureBlock(idx int) {
	for len(s.blocks) <= idx {
		s.blocks = append(s.blocks, make([]byte, s.blockSize))
	}
}

func (s *ByteStore) ensureCapacity(uptoPos int) {
	if uptoPos <= 0 {
		return
	}
	s.ensureBlock((uptoPos - 1) >> s.blockBits)
}

func (s *ByteStore) byteAt(pos int) byte {
	return s.blocks[pos>>s.blockBits][pos&s.blockMask]
}

func (s *ByteStore) setByteAt(pos int, b byte) {
	s.blocks[pos>>s.blockBits][pos&s.blockMask] = b
}

// OverwriteByte rewrites the byte at pos, which must already have been
// written (directly or via SkipBytes). Used to patch a fixed-array header
// in after the arcs behind it are known.
func (s *ByteStore) OverwriteByte(pos int, b byte) {
	s.setByteAt(pos, b)
}

// Position returns the current write cursor (== length once written
// monotonically via WriteByte/WriteBytes/WriteVInt/...).
func (s *ByteStore) Position() int {
	return s.pos
}

// WriteByte appends a single byte.
func (s *ByteStore) WriteByte(b byte) {
	s.ensureBlock(s.pos >> s.blockBits)
	s.setByteAt(s.pos, b)
	s.pos++
}

// WriteBytes appends src in order.
func (s *ByteStore) WriteBytes(src []byte) {
	for _, b := range src {
		s.WriteByte(b)
	}
}

// WriteVInt appends v as a 7-bits-per-byte variable length integer.
func (s *ByteStore) WriteVInt(v uint32) {
	s.WriteBytes(appendVInt(nil, uint64(v)))
}

// WriteVLong appends v as a 7-bits-per-byte variable length integer.
func (s *ByteStore) WriteVLong(v uint64) {
	s.WriteBytes(appendVInt(nil, v))
}

// WriteInt appends v as a fixed-width 4-byte big-endian integer (Save uses
// it for the format version in the codec header).
func (s *ByteStore) WriteInt(v int32) {
	s.WriteBytes([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// WriteShort appends v as a fixed-width 2-byte big-endian integer.
func (s *ByteStore) WriteShort(v uint16) {
	s.WriteBytes([]byte{byte(v >> 8), byte(v)})
}

// SkipBytes advances the write cursor by n, leaving zero-filled holes to be
// overwritten later (the fixed-array header reservation relies on this).
func (s *ByteStore) SkipBytes(n int) {
	s.ensureCapacity(s.pos + n)
	s.pos += n
}

// CopyBytes copies length bytes from srcPos to dstPos. It is only
// overlap-safe when dstPos > srcPos — the direction the fixed-array arc
// expander always copies in — because it writes the destination range
// back-to-front.
func (s *ByteStore) CopyBytes(srcPos, dstPos, length int) {
	s.ensureCapacity(dstPos + length)
	for i := length - 1; i >= 0; i-- {
		s.setByteAt(dstPos+i, s.byteAt(srcPos+i))
	}
}

// Truncate discards everything written at or after pos.
func (s *ByteStore) Truncate(pos int) {
	s.pos = pos
}

// Reverse reverses the closed byte range [from, to] in place.
func (s *ByteStore) Reverse(from, to int) {
	for from < to {
		a, b := s.byteAt(from), s.byteAt(to)
		s.setByteAt(from, b)
		s.setByteAt(to, a)
		from++
		to--
	}
}

// Finish marks the store as finished. It does not block further writes;
// Len keeps reporting the current write position.
func (s *ByteStore) Finish() {
	s.finished = true
}

// Len returns the store's current (or, once Finish has been called, final)
// length in bytes.
func (s *ByteStore) Len() int {
	return s.pos
}

// Bytes copies out the store's full contents. Intended for Save(), not for
// the hot read path.
func (s *ByteStore) Bytes() []byte {
	out := make([]byte, s.pos)
	for i := range out {
		out[i] = s.byteAt(i)
	}
	return out
}

// NewByteStoreFromBytes builds a ByteStore whose contents are exactly buf,
// for Load().
func NewByteStoreFromBytes(buf []byte) *ByteStore {
	s := NewByteStore()
	s.WriteBytes(buf)
	s.Finish()
	return s
}
